package scheduler

import (
	"sort"

	"github.com/shiftwise/shiftwise-api/pkg/models"
)

// Quality-mix rule: a worker rated at or below LowRatedThreshold counts as
// low-rated, and a single shift may carry at most LowRatedCap of them across
// all its roles. Fixed business policy, not configurable per business.
const (
	LowRatedThreshold = 4
	LowRatedCap       = 2
)

// roleResult is the outcome of filling one role's slots in one shift.
type roleResult struct {
	assigned []models.AssignedWorker
	lowRated int // updated shift-scoped counter
	unfilled int
}

// assignRole fills up to required slots for one role from candidates.
// Candidates must already be filtered to available, qualified workers;
// assignedIDs and lowRated carry the shift-scoped state threaded across
// roles. Candidates are ranked by rating descending, ties keeping roster
// order, so the result is deterministic for a fixed input order.
func assignRole(candidates []*models.Worker, role models.Role, required int, assignedIDs map[string]bool, lowRated int) roleResult {
	ranked := make([]*models.Worker, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})

	res := roleResult{lowRated: lowRated}
	for slot := 0; slot < required; slot++ {
		filled := false
		for _, w := range ranked {
			if assignedIDs[w.ID] {
				continue
			}
			if w.Rating <= LowRatedThreshold && res.lowRated >= LowRatedCap {
				// Blocked only by the cap; later candidates may still fit.
				continue
			}
			res.assigned = append(res.assigned, models.AssignedWorker{
				WorkerID:   w.ID,
				WorkerName: w.Name,
				Rating:     w.Rating,
				RoleID:     role.ID,
				RoleName:   role.Name,
			})
			assignedIDs[w.ID] = true
			if w.Rating <= LowRatedThreshold {
				res.lowRated++
			}
			filled = true
			break
		}
		if !filled {
			res.unfilled++
		}
	}
	return res
}

// lowRatedCount counts the low-rated workers already assigned to a shift.
func lowRatedCount(shift *models.ShiftInstance) int {
	n := 0
	for _, a := range shift.AssignedWorkers {
		if a.Rating <= LowRatedThreshold {
			n++
		}
	}
	return n
}
