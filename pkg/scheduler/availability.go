package scheduler

import (
	"time"

	"github.com/shiftwise/shiftwise-api/pkg/models"
)

// IsAvailable reports whether a worker can be scheduled for the given shift
// index on the given date. Pure function of its inputs.
//
// Policy: a worker with no entry at all for the month is unavailable
// (monthly submission is mandatory; the generation precondition rejects the
// whole run before this default ever matters there, but open-shift pickup
// relies on it). Within a submitted month, dates the worker did not itemize
// are available, as are shift indexes beyond what the day record covers —
// workers mark exceptions, not confirmations.
func IsAvailable(w *models.Worker, date time.Time, shiftIndex int) bool {
	monthKey := date.Format("2006-01")
	month, ok := w.MonthlyAvailability[monthKey]
	if !ok {
		return false
	}

	day, ok := month[date.Format("2006-01-02")]
	if !ok {
		return true
	}
	if shiftIndex < 0 || shiftIndex >= len(day.Shifts) {
		return true
	}
	return day.Shifts[shiftIndex].Available
}

// HasSubmitted reports whether the worker has any availability entry for
// the month, regardless of its contents.
func HasSubmitted(w *models.Worker, monthKey string) bool {
	_, ok := w.MonthlyAvailability[monthKey]
	return ok
}
