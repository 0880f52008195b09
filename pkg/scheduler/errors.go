package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Generation preconditions
	ErrSetupIncomplete = errors.New("business setup incomplete: configure at least one role and one shift")
	ErrNoWorkers       = errors.New("no workers on this business")

	// Manual edit validation
	ErrNotQualified        = errors.New("worker is not qualified for this role")
	ErrAlreadyAssigned     = errors.New("worker is already assigned to this shift")
	ErrLowRatedCapExceeded = errors.New("shift already has the maximum number of low-rated workers")
	ErrNotAssigned         = errors.New("worker is not assigned to this shift")
)

// MissingAvailabilityError reports the workers who have not submitted
// availability for the target month. Generation cannot proceed until every
// worker has a month entry.
type MissingAvailabilityError struct {
	MonthKey    string
	WorkerNames []string
}

func (e *MissingAvailabilityError) Error() string {
	return fmt.Sprintf("missing availability for %s: %s", e.MonthKey, strings.Join(e.WorkerNames, ", "))
}
