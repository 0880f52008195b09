package scheduler

import "github.com/shiftwise/shiftwise-api/pkg/models"

// RemoveRole deletes a role from a business and rewrites every shift
// definition and worker qualification that still references it. One
// explicit referential-integrity pass instead of ad hoc filtering at each
// call site; safe to call with an unknown role id.
func RemoveRole(business *models.Business, workers []*models.Worker, roleID int) {
	roles := business.Roles[:0]
	for _, r := range business.Roles {
		if r.ID != roleID {
			roles = append(roles, r)
		}
	}
	business.Roles = roles

	for weekday, day := range business.WeeklyTemplate {
		for i := range day.Shifts {
			delete(day.Shifts[i].RoleRequirements, roleID)
		}
		business.WeeklyTemplate[weekday] = day
	}

	for _, w := range workers {
		ids := w.RoleIDs[:0]
		for _, id := range w.RoleIDs {
			if id != roleID {
				ids = append(ids, id)
			}
		}
		w.RoleIDs = ids
	}
}

// ValidateConfig checks a business config and roster for structural
// problems that would make a generated schedule misleading: duplicate ids,
// shift requirements referencing roles that no longer exist, worker
// qualifications outside the business role set, and out-of-range ratings.
// Returns a list of human-readable problems; empty means valid.
func ValidateConfig(business *models.Business, workers []*models.Worker) []string {
	var problems []string

	roleIDs := make(map[int]bool)
	for _, r := range business.Roles {
		if roleIDs[r.ID] {
			problems = append(problems, "duplicate role id: "+r.Name)
		}
		roleIDs[r.ID] = true
	}

	for weekday, day := range business.WeeklyTemplate {
		for _, shift := range day.Shifts {
			for roleID := range shift.RoleRequirements {
				if !roleIDs[roleID] {
					problems = append(problems, "shift "+shift.Name+" on weekday "+weekday.String()+" requires unknown role")
				}
			}
		}
	}

	workerIDs := make(map[string]bool)
	for _, w := range workers {
		if workerIDs[w.ID] {
			problems = append(problems, "duplicate worker id: "+w.ID)
		}
		workerIDs[w.ID] = true

		if w.Rating < 1 || w.Rating > 10 {
			problems = append(problems, "worker "+w.Name+" has rating outside 1-10")
		}
		for _, id := range w.RoleIDs {
			if !roleIDs[id] {
				problems = append(problems, "worker "+w.Name+" holds unknown role")
			}
		}
	}

	return problems
}
