package scheduler

import (
	"fmt"

	"github.com/shiftwise/shiftwise-api/pkg/models"
)

// buildShift assembles one shift instance for a date: it walks the business
// roles in role-list order, fills each nonzero requirement via assignRole,
// and records a per-slot unfilled position for every slot left open. The
// low-rated counter is shift-scoped and threaded across roles.
func buildShift(business *models.Business, dateStr string, shiftIndex int, def models.ShiftDef, available []*models.Worker) models.ShiftInstance {
	shift := models.ShiftInstance{
		ID:                fmt.Sprintf("%s-%d", dateStr, shiftIndex),
		Date:              dateStr,
		Name:              def.Name,
		Start:             def.Start,
		End:               def.End,
		AssignedWorkers:   []models.AssignedWorker{},
		UnfilledPositions: []models.UnfilledPosition{},
	}

	assignedIDs := make(map[string]bool)
	lowRated := 0

	for _, role := range business.Roles {
		required := def.RoleRequirements[role.ID]
		if required == 0 {
			continue
		}
		shift.RoleRequirements = append(shift.RoleRequirements, models.RoleRequirement{
			RoleID:   role.ID,
			RoleName: role.Name,
			Count:    required,
		})

		var candidates []*models.Worker
		for _, w := range available {
			if w.HasRole(role.ID) && !assignedIDs[w.ID] {
				candidates = append(candidates, w)
			}
		}

		res := assignRole(candidates, role, required, assignedIDs, lowRated)
		lowRated = res.lowRated
		shift.AssignedWorkers = append(shift.AssignedWorkers, res.assigned...)
		for slot := 0; slot < res.unfilled; slot++ {
			shift.UnfilledPositions = append(shift.UnfilledPositions, models.UnfilledPosition{
				ID:       fmt.Sprintf("%s-%d-%d", shift.ID, role.ID, slot),
				RoleID:   role.ID,
				RoleName: role.Name,
			})
		}
	}

	return shift
}
