package scheduler

import (
	"sort"
	"time"

	"github.com/shiftwise/shiftwise-api/pkg/models"
)

// ExportHeader is the first row of a flattened schedule.
var ExportHeader = []string{"Date", "Day", "Shift", "Time", "Role", "Worker", "Status"}

// Flatten projects a schedule into report rows: one per assignment and one
// per unfilled slot, dates ascending, shifts in day order. Purely a
// projection for CSV/reporting, not a separate data model.
func Flatten(schedule *models.Schedule) [][]string {
	dates := make([]string, 0, len(schedule.Days))
	for date := range schedule.Days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var rows [][]string
	for _, date := range dates {
		weekday := weekdayName(date)
		for _, shift := range schedule.Days[date] {
			timeRange := shift.Start + " - " + shift.End
			for _, a := range shift.AssignedWorkers {
				rows = append(rows, []string{date, weekday, shift.Name, timeRange, a.RoleName, a.WorkerName, "Assigned"})
			}
			for _, u := range shift.UnfilledPositions {
				rows = append(rows, []string{date, weekday, shift.Name, timeRange, u.RoleName, "UNFILLED", "Needs Assignment"})
			}
		}
	}
	return rows
}

func weekdayName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
