package models

import "time"

// Role is a named job qualification workers can hold (e.g. Server, Cook).
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ShiftDef is one shift in a business's weekly template: a time window plus
// the headcount required per role id.
type ShiftDef struct {
	Name             string      `json:"name"`
	Start            string      `json:"start"` // "HH:MM"
	End              string      `json:"end"`   // "HH:MM"
	RoleRequirements map[int]int `json:"role_requirements"`
}

// DayTemplate holds the ordered shifts recurring on one weekday.
type DayTemplate struct {
	Shifts []ShiftDef `json:"shifts"`
}

// Business owns the roles and the weekly shift template.
type Business struct {
	ID             string                       `json:"id"`
	Name           string                       `json:"name"`
	Roles          []Role                       `json:"roles"`
	WeeklyTemplate map[time.Weekday]DayTemplate `json:"weekly_template"`
}

// SetupComplete reports whether the business is configured enough to
// generate schedules: at least one role and at least one weekday with at
// least one shift. Derived, never stored independently.
func (b *Business) SetupComplete() bool {
	if len(b.Roles) == 0 {
		return false
	}
	for _, day := range b.WeeklyTemplate {
		if len(day.Shifts) > 0 {
			return true
		}
	}
	return false
}

// RoleByID returns the business role with the given id, if any.
func (b *Business) RoleByID(id int) (Role, bool) {
	for _, r := range b.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// ShiftAvailability is a worker's declared status for one shift slot on one
// date. Preferred is advisory only; the assignment policy does not act on it.
type ShiftAvailability struct {
	Available bool `json:"available"`
	Preferred bool `json:"preferred,omitempty"`
}

// DayAvailability itemizes a worker's availability per shift index on one
// date. A shift index beyond the recorded slice counts as available.
type DayAvailability struct {
	Shifts []ShiftAvailability `json:"shifts"`
}

// MonthAvailability maps "YYYY-MM-DD" date strings to per-day records.
// Dates not itemized count as available (workers mark exceptions).
type MonthAvailability map[string]DayAvailability

// Worker is a person who can be assigned to shifts.
type Worker struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Rating int    `json:"rating"` // 1-10
	// RoleIDs are the roles the worker is qualified for.
	RoleIDs []int `json:"role_ids"`
	// MonthlyAvailability is keyed by zero-padded "YYYY-MM". A missing month
	// key means the worker has not submitted that month at all, which blocks
	// generation for the month.
	MonthlyAvailability map[string]MonthAvailability `json:"monthly_availability"`
}

// HasRole reports whether the worker is qualified for the role.
func (w *Worker) HasRole(roleID int) bool {
	for _, id := range w.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// AssignedWorker is one worker slotted into a shift instance. Name, rating
// and role name are denormalized at generation time so the record survives
// later worker edits or deletion.
type AssignedWorker struct {
	WorkerID   string `json:"worker_id"`
	WorkerName string `json:"worker_name"`
	Rating     int    `json:"rating"`
	RoleID     int    `json:"role_id"`
	RoleName   string `json:"role_name"`
}

// UnfilledPosition is one required slot no eligible worker could fill. The
// ID is stable across regenerations so a UI can address the exact slot.
type UnfilledPosition struct {
	ID       string `json:"id"`
	RoleID   int    `json:"role_id"`
	RoleName string `json:"role_name"`
}

// RoleRequirement is a denormalized copy of one role's headcount in a shift
// definition, carried on the instance so manual edits can re-derive unfilled
// counts without the business config at hand.
type RoleRequirement struct {
	RoleID   int    `json:"role_id"`
	RoleName string `json:"role_name"`
	Count    int    `json:"count"`
}

// ShiftInstance is one concrete occurrence of a shift definition on a date.
type ShiftInstance struct {
	ID                string             `json:"id"` // "<date>-<shiftIndex>"
	Date              string             `json:"date"`
	Name              string             `json:"name"`
	Start             string             `json:"start"`
	End               string             `json:"end"`
	RoleRequirements  []RoleRequirement  `json:"role_requirements"`
	AssignedWorkers   []AssignedWorker   `json:"assigned_workers"`
	UnfilledPositions []UnfilledPosition `json:"unfilled_positions"`
}

// ScheduleStats summarizes one generated month.
type ScheduleStats struct {
	TotalShifts      int `json:"total_shifts"`
	FilledShifts     int `json:"filled_shifts"`
	UnfilledShifts   int `json:"unfilled_shifts"`
	TotalWorkers     int `json:"total_workers"`
	WorkersScheduled int `json:"workers_scheduled"`
}

// Schedule is a generated month: ISO date -> ordered shift instances, plus
// aggregate stats. It is a derived artifact, regenerable from the business
// config and roster.
type Schedule struct {
	MonthKey string                     `json:"month"` // "YYYY-MM"
	Days     map[string][]ShiftInstance `json:"days"`
	Stats    ScheduleStats              `json:"stats"`
}

// Period identifies the month being scheduled. Month is 1-based.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Key returns the zero-padded "YYYY-MM" month key.
func (p Period) Key() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Days returns the number of calendar days in the period's month.
func (p Period) Days() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the time.Time for the given day-of-month in the period.
func (p Period) Date(day int) time.Time {
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
}

// Time-off request lifecycle: created pending, then a single manager
// decision moves it to approved or denied. No further transitions.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
)
