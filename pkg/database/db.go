package database

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shiftwise/shiftwise-api/pkg/models"
)

// ManagerUser represents the manager_users table
type ManagerUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	BusinessID   string    `gorm:"index" json:"business_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// BusinessRecord represents the businesses table. Roles and the weekly
// template are stored as a JSON document, the shape the engine consumes.
type BusinessRecord struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Config    string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Business unmarshals the stored config document.
func (r *BusinessRecord) Business() (*models.Business, error) {
	b := &models.Business{ID: r.ID, Name: r.Name}
	if r.Config != "" {
		if err := json.Unmarshal([]byte(r.Config), b); err != nil {
			return nil, err
		}
	}
	b.ID = r.ID
	b.Name = r.Name
	return b, nil
}

// SetBusiness replaces the stored config document.
func (r *BusinessRecord) SetBusiness(b *models.Business) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	r.Name = b.Name
	r.Config = string(data)
	return nil
}

// WorkerRecord represents the workers table. Qualifications and monthly
// availability are JSON columns keyed the way the engine expects.
type WorkerRecord struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	BusinessID   string    `gorm:"index;not null" json:"business_id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `json:"email"`
	Rating       int       `gorm:"default:5" json:"rating"`
	Roles        string    `gorm:"type:text" json:"-"`
	Availability string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Worker unmarshals the record into the engine's worker shape.
func (r *WorkerRecord) Worker() (*models.Worker, error) {
	w := &models.Worker{
		ID:                  r.ID,
		Name:                r.Name,
		Email:               r.Email,
		Rating:              r.Rating,
		MonthlyAvailability: map[string]models.MonthAvailability{},
	}
	if r.Roles != "" {
		if err := json.Unmarshal([]byte(r.Roles), &w.RoleIDs); err != nil {
			return nil, err
		}
	}
	if r.Availability != "" {
		if err := json.Unmarshal([]byte(r.Availability), &w.MonthlyAvailability); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// SetWorker writes the engine worker shape back into the record's columns.
func (r *WorkerRecord) SetWorker(w *models.Worker) error {
	roles, err := json.Marshal(w.RoleIDs)
	if err != nil {
		return err
	}
	avail, err := json.Marshal(w.MonthlyAvailability)
	if err != nil {
		return err
	}
	r.Name = w.Name
	r.Email = w.Email
	r.Rating = w.Rating
	r.Roles = string(roles)
	r.Availability = string(avail)
	return nil
}

// ScheduleRecord represents the schedules table: one row per business and
// month, replaced wholesale on regeneration so readers never see a partial
// month. Stats are denormalized into columns for cheap dashboard queries.
type ScheduleRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	BusinessID       string    `gorm:"uniqueIndex:idx_business_month;not null" json:"business_id"`
	MonthKey         string    `gorm:"uniqueIndex:idx_business_month;not null" json:"month"`
	Data             string    `gorm:"type:text" json:"-"`
	TotalShifts      int       `gorm:"default:0" json:"total_shifts"`
	FilledShifts     int       `gorm:"default:0" json:"filled_shifts"`
	UnfilledShifts   int       `gorm:"default:0" json:"unfilled_shifts"`
	WorkersScheduled int       `gorm:"default:0" json:"workers_scheduled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Schedule unmarshals the stored month document.
func (r *ScheduleRecord) Schedule() (*models.Schedule, error) {
	s := &models.Schedule{}
	if err := json.Unmarshal([]byte(r.Data), s); err != nil {
		return nil, err
	}
	return s, nil
}

// SetSchedule replaces the stored month document and the stat columns.
func (r *ScheduleRecord) SetSchedule(s *models.Schedule) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.MonthKey = s.MonthKey
	r.Data = string(data)
	r.TotalShifts = s.Stats.TotalShifts
	r.FilledShifts = s.Stats.FilledShifts
	r.UnfilledShifts = s.Stats.UnfilledShifts
	r.WorkersScheduled = s.Stats.WorkersScheduled
	return nil
}

// TimeOffRequest represents the time_off_requests table
type TimeOffRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID string    `gorm:"index;not null" json:"business_id"`
	WorkerID   string    `gorm:"index;not null" json:"worker_id"`
	StartDate  string    `gorm:"not null" json:"start_date"` // "YYYY-MM-DD"
	EndDate    string    `gorm:"not null" json:"end_date"`
	Reason     string    `json:"reason"`
	Status     string    `gorm:"default:pending" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "shiftwise.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&ManagerUser{}, &BusinessRecord{}, &WorkerRecord{}, &ScheduleRecord{}, &TimeOffRequest{})

	return db
}
