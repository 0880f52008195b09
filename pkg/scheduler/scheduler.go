package scheduler

import (
	"github.com/shiftwise/shiftwise-api/pkg/models"
)

// Generate produces the full schedule for one month. It is a pure function
// of the business config, the roster and the period: no hidden state, so
// re-running with unchanged inputs yields an identical schedule.
//
// Preconditions, checked in order, each a hard stop with no schedule
// produced: the business setup must be complete, the roster must be
// non-empty, and every worker must have submitted availability for the
// target month.
func Generate(business *models.Business, workers []*models.Worker, period models.Period) (*models.Schedule, error) {
	if !business.SetupComplete() {
		return nil, ErrSetupIncomplete
	}
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}

	monthKey := period.Key()
	var missing []string
	for _, w := range workers {
		if !HasSubmitted(w, monthKey) {
			missing = append(missing, w.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingAvailabilityError{MonthKey: monthKey, WorkerNames: missing}
	}

	schedule := &models.Schedule{
		MonthKey: monthKey,
		Days:     make(map[string][]models.ShiftInstance),
	}
	scheduledIDs := make(map[string]bool)

	for day := 1; day <= period.Days(); day++ {
		date := period.Date(day)
		dateStr := date.Format("2006-01-02")

		// Absent or empty weekday template means the business is closed.
		template := business.WeeklyTemplate[date.Weekday()]
		if len(template.Shifts) == 0 {
			continue
		}

		instances := make([]models.ShiftInstance, 0, len(template.Shifts))
		for shiftIndex, def := range template.Shifts {
			var available []*models.Worker
			for _, w := range workers {
				if IsAvailable(w, date, shiftIndex) {
					available = append(available, w)
				}
			}

			shift := buildShift(business, dateStr, shiftIndex, def, available)
			for _, a := range shift.AssignedWorkers {
				scheduledIDs[a.WorkerID] = true
			}

			schedule.Stats.TotalShifts++
			if len(shift.UnfilledPositions) == 0 {
				schedule.Stats.FilledShifts++
			} else {
				schedule.Stats.UnfilledShifts++
			}
			instances = append(instances, shift)
		}
		schedule.Days[dateStr] = instances
	}

	schedule.Stats.TotalWorkers = len(workers)
	schedule.Stats.WorkersScheduled = len(scheduledIDs)
	return schedule, nil
}

// Recount recomputes a schedule's aggregate stats from its shift instances.
// Used after manual edits so the summary stays consistent with the data.
func Recount(schedule *models.Schedule, totalWorkers int) {
	stats := models.ScheduleStats{TotalWorkers: totalWorkers}
	scheduledIDs := make(map[string]bool)
	for _, shifts := range schedule.Days {
		for _, shift := range shifts {
			stats.TotalShifts++
			if len(shift.UnfilledPositions) == 0 {
				stats.FilledShifts++
			} else {
				stats.UnfilledShifts++
			}
			for _, a := range shift.AssignedWorkers {
				scheduledIDs[a.WorkerID] = true
			}
		}
	}
	stats.WorkersScheduled = len(scheduledIDs)
	schedule.Stats = stats
}
