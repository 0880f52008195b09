package scheduler

import (
	"fmt"

	"github.com/shiftwise/shiftwise-api/pkg/models"
)

// Manual edits patch a single already-generated shift. They enforce the
// same invariants the generator guarantees — no duplicate worker per shift,
// the low-rated cap, accurate unfilled counts — as a single-mutation check
// instead of a full rebuild. A failed edit leaves the shift untouched.

// AddWorkerToShift assigns a worker to a role on an existing shift. The
// matching unfilled position for that role, if any, is consumed.
func AddWorkerToShift(shift *models.ShiftInstance, worker *models.Worker, role models.Role) error {
	if !worker.HasRole(role.ID) {
		return ErrNotQualified
	}
	for _, a := range shift.AssignedWorkers {
		if a.WorkerID == worker.ID {
			return ErrAlreadyAssigned
		}
	}
	if worker.Rating <= LowRatedThreshold && lowRatedCount(shift) >= LowRatedCap {
		return ErrLowRatedCapExceeded
	}

	shift.AssignedWorkers = append(shift.AssignedWorkers, models.AssignedWorker{
		WorkerID:   worker.ID,
		WorkerName: worker.Name,
		Rating:     worker.Rating,
		RoleID:     role.ID,
		RoleName:   role.Name,
	})

	// Consume one unfilled slot for this role if one exists.
	for i, u := range shift.UnfilledPositions {
		if u.RoleID == role.ID {
			shift.UnfilledPositions = append(shift.UnfilledPositions[:i], shift.UnfilledPositions[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveWorkerFromShift deletes a worker's assignment and re-derives the
// unfilled positions for the affected role against the shift's recorded
// requirements.
func RemoveWorkerFromShift(shift *models.ShiftInstance, workerID string) error {
	idx := -1
	for i, a := range shift.AssignedWorkers {
		if a.WorkerID == workerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotAssigned
	}

	roleID := shift.AssignedWorkers[idx].RoleID
	shift.AssignedWorkers = append(shift.AssignedWorkers[:idx], shift.AssignedWorkers[idx+1:]...)
	rederiveUnfilled(shift, roleID)
	return nil
}

// rederiveUnfilled rebuilds the unfilled entries for one role from the
// shift's requirement and its remaining assignments. Slot ids stay stable
// for a given shortfall size.
func rederiveUnfilled(shift *models.ShiftInstance, roleID int) {
	required := 0
	roleName := ""
	for _, r := range shift.RoleRequirements {
		if r.RoleID == roleID {
			required = r.Count
			roleName = r.RoleName
			break
		}
	}

	assigned := 0
	for _, a := range shift.AssignedWorkers {
		if a.RoleID == roleID {
			assigned++
		}
	}

	kept := shift.UnfilledPositions[:0]
	for _, u := range shift.UnfilledPositions {
		if u.RoleID != roleID {
			kept = append(kept, u)
		}
	}
	shift.UnfilledPositions = kept

	for slot := 0; slot < required-assigned; slot++ {
		shift.UnfilledPositions = append(shift.UnfilledPositions, models.UnfilledPosition{
			ID:       fmt.Sprintf("%s-%d-%d", shift.ID, roleID, slot),
			RoleID:   roleID,
			RoleName: roleName,
		})
	}
}
