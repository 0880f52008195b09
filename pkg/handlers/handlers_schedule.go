package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiftwise/shiftwise-api/pkg/database"
	"github.com/shiftwise/shiftwise-api/pkg/models"
	"github.com/shiftwise/shiftwise-api/pkg/scheduler"
)

// monthLocks serializes generation and manual edits per business+month so
// two overlapping runs cannot interleave a half-overwritten schedule.
var monthLocks sync.Map

func lockMonth(businessID, monthKey string) *sync.Mutex {
	mu, _ := monthLocks.LoadOrStore(businessID+"/"+monthKey, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GenerateSchedule runs the assignment engine for one month and replaces
// the stored schedule in a single upsert
func (h *Handler) GenerateSchedule(c *gin.Context) {
	_, business, ok := h.loadBusiness(c)
	if !ok {
		return
	}

	var req struct {
		Year  int `json:"year"`
		Month int `json:"month"` // 1-12
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Year < 2000 || req.Month < 1 || req.Month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month (1-12) are required"})
		return
	}

	workers, ok := h.loadWorkers(c, business.ID)
	if !ok {
		return
	}

	period := models.Period{Year: req.Year, Month: time.Month(req.Month)}
	mu := lockMonth(business.ID, period.Key())
	mu.Lock()
	defer mu.Unlock()

	schedule, err := scheduler.Generate(business, workers, period)
	if err != nil {
		var missing *scheduler.MissingAvailabilityError
		switch {
		case errors.Is(err, scheduler.ErrSetupIncomplete), errors.Is(err, scheduler.ErrNoWorkers):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &missing):
			c.JSON(http.StatusConflict, gin.H{
				"error":           err.Error(),
				"missing_workers": missing.WorkerNames,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	record := database.ScheduleRecord{BusinessID: business.ID}
	if err := record.SetSchedule(schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode schedule"})
		return
	}

	// Single-query upsert so regeneration atomically replaces the month
	// (supported by both Postgres and SQLite)
	err = h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_id"}, {Name: "month_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"data":              record.Data,
			"total_shifts":      record.TotalShifts,
			"filled_shifts":     record.FilledShifts,
			"unfilled_shifts":   record.UnfilledShifts,
			"workers_scheduled": record.WorkersScheduled,
			"updated_at":        time.Now(),
		}),
	}).Create(&record).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

func (h *Handler) loadSchedule(c *gin.Context, businessID, monthKey string) (*database.ScheduleRecord, *models.Schedule, bool) {
	var record database.ScheduleRecord
	if err := h.DB.First(&record, "business_id = ? AND month_key = ?", businessID, monthKey).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No schedule for " + monthKey})
		return nil, nil, false
	}
	schedule, err := record.Schedule()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Corrupt schedule record"})
		return nil, nil, false
	}
	return &record, schedule, true
}

// GetSchedule returns the stored schedule for a month
func (h *Handler) GetSchedule(c *gin.Context) {
	businessID := c.GetString("businessID")
	_, schedule, ok := h.loadSchedule(c, businessID, c.Param("month"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// findShift locates a shift instance inside a schedule by id. Shift ids
// start with the ISO date, so the day list is found without scanning the
// whole month.
func findShift(schedule *models.Schedule, shiftID string) *models.ShiftInstance {
	if len(shiftID) < 10 {
		return nil
	}
	date := shiftID[:10]
	shifts := schedule.Days[date]
	for i := range shifts {
		if shifts[i].ID == shiftID {
			return &shifts[i]
		}
	}
	return nil
}

// editShift applies one manual mutation to a shift under the month lock and
// writes the month back, so an edit cannot race a regeneration.
func (h *Handler) editShift(c *gin.Context, apply func(*models.ShiftInstance, *models.Business) error) {
	_, business, ok := h.loadBusiness(c)
	if !ok {
		return
	}
	monthKey := c.Param("month")

	mu := lockMonth(business.ID, monthKey)
	mu.Lock()
	defer mu.Unlock()

	record, schedule, ok := h.loadSchedule(c, business.ID, monthKey)
	if !ok {
		return
	}

	shift := findShift(schedule, c.Param("shiftId"))
	if shift == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		return
	}

	if err := apply(shift, business); err != nil {
		status := http.StatusConflict
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	var total int64
	h.DB.Model(&database.WorkerRecord{}).Where("business_id = ?", business.ID).Count(&total)
	scheduler.Recount(schedule, int(total))

	if err := record.SetSchedule(schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode schedule"})
		return
	}
	if err := h.DB.Save(record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"shift": shift, "stats": schedule.Stats})
}

// AddShiftWorker assigns a worker to a generated shift by hand
func (h *Handler) AddShiftWorker(c *gin.Context) {
	var req struct {
		WorkerID string `json:"worker_id"`
		RoleID   int    `json:"role_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.editShift(c, func(shift *models.ShiftInstance, business *models.Business) error {
		role, ok := business.RoleByID(req.RoleID)
		if !ok {
			return gorm.ErrRecordNotFound
		}
		var record database.WorkerRecord
		if err := h.DB.First(&record, "id = ? AND business_id = ?", req.WorkerID, business.ID).Error; err != nil {
			return err
		}
		worker, err := record.Worker()
		if err != nil {
			return err
		}
		return scheduler.AddWorkerToShift(shift, worker, role)
	})
}

// RemoveShiftWorker removes a worker from a generated shift
func (h *Handler) RemoveShiftWorker(c *gin.Context) {
	workerID := c.Param("workerId")
	h.editShift(c, func(shift *models.ShiftInstance, business *models.Business) error {
		return scheduler.RemoveWorkerFromShift(shift, workerID)
	})
}

// ExportSchedule streams the month as CSV rows of date, weekday, shift,
// time range, role, worker (or UNFILLED) and status
func (h *Handler) ExportSchedule(c *gin.Context) {
	businessID := c.GetString("businessID")
	monthKey := c.Param("month")
	_, schedule, ok := h.loadSchedule(c, businessID, monthKey)
	if !ok {
		return
	}

	var out strings.Builder
	writer := csv.NewWriter(&out)
	writer.Write(scheduler.ExportHeader)
	for _, row := range scheduler.Flatten(schedule) {
		writer.Write(row)
	}
	writer.Flush()

	c.Header("Content-Disposition", "attachment; filename=schedule-"+monthKey+".csv")
	c.Data(http.StatusOK, "text/csv", []byte(out.String()))
}

// GetScheduleStats returns the denormalized stats columns for every stored
// month, most recent first
func (h *Handler) GetScheduleStats(c *gin.Context) {
	businessID := c.GetString("businessID")
	var records []database.ScheduleRecord
	if err := h.DB.Where("business_id = ?", businessID).Order("month_key desc").Limit(12).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": records})
}
