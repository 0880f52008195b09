package database

import (
	"testing"
	"time"

	"github.com/shiftwise/shiftwise-api/pkg/models"
)

func TestWorkerRecordRoundTrip(t *testing.T) {
	worker := &models.Worker{
		ID:      "w1",
		Name:    "Alice",
		Email:   "alice@example.com",
		Rating:  9,
		RoleIDs: []int{1, 2},
		MonthlyAvailability: map[string]models.MonthAvailability{
			"2026-08": {
				"2026-08-03": {Shifts: []models.ShiftAvailability{{Available: false}}},
			},
		},
	}

	record := WorkerRecord{ID: worker.ID, BusinessID: "b1"}
	if err := record.SetWorker(worker); err != nil {
		t.Fatalf("SetWorker failed: %v", err)
	}

	got, err := record.Worker()
	if err != nil {
		t.Fatalf("Worker failed: %v", err)
	}
	if got.Name != "Alice" || got.Rating != 9 || len(got.RoleIDs) != 2 {
		t.Errorf("Round trip lost worker fields: %+v", got)
	}
	day, ok := got.MonthlyAvailability["2026-08"]["2026-08-03"]
	if !ok || len(day.Shifts) != 1 || day.Shifts[0].Available {
		t.Errorf("Round trip lost availability: %+v", got.MonthlyAvailability)
	}
}

func TestBusinessRecordRoundTrip(t *testing.T) {
	business := &models.Business{
		ID:    "b1",
		Name:  "Test Diner",
		Roles: []models.Role{{ID: 1, Name: "Server"}},
		WeeklyTemplate: map[time.Weekday]models.DayTemplate{
			time.Monday: {Shifts: []models.ShiftDef{
				{Name: "Day", Start: "09:00", End: "17:00", RoleRequirements: map[int]int{1: 2}},
			}},
		},
	}

	record := BusinessRecord{ID: business.ID}
	if err := record.SetBusiness(business); err != nil {
		t.Fatalf("SetBusiness failed: %v", err)
	}

	got, err := record.Business()
	if err != nil {
		t.Fatalf("Business failed: %v", err)
	}
	if !got.SetupComplete() {
		t.Error("Expected round-tripped business to still be setup complete")
	}
	if got.WeeklyTemplate[time.Monday].Shifts[0].RoleRequirements[1] != 2 {
		t.Errorf("Round trip lost template: %+v", got.WeeklyTemplate)
	}
}
