package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shiftwise/shiftwise-api/pkg/database"
	"github.com/shiftwise/shiftwise-api/pkg/models"
)

func workerFromContext(c *gin.Context) *database.WorkerRecord {
	raw, exists := c.Get("worker")
	if !exists {
		return nil
	}
	return raw.(*database.WorkerRecord)
}

// SubmitAvailability records a worker's availability for one month. An
// empty day map is a valid submission meaning "available every day"; it is
// what unblocks generation for the month.
func (h *Handler) SubmitAvailability(c *gin.Context) {
	record := workerFromContext(c)
	if record == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Worker context missing"})
		return
	}

	var req struct {
		Month string                   `json:"month"` // "YYYY-MM"
		Days  models.MonthAvailability `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := time.Parse("2006-01", req.Month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be formatted YYYY-MM"})
		return
	}
	for date := range req.Days {
		if _, err := time.Parse("2006-01-02", date); err != nil || !strings.HasPrefix(date, req.Month) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date outside submitted month: " + date})
			return
		}
	}

	worker, err := record.Worker()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Corrupt worker record"})
		return
	}
	if req.Days == nil {
		req.Days = models.MonthAvailability{}
	}
	worker.MonthlyAvailability[req.Month] = req.Days

	if err := record.SetWorker(worker); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode worker"})
		return
	}
	if err := h.DB.Save(record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": req.Month, "days": req.Days})
}

// GetMyShifts returns the worker's own assignments for a month
func (h *Handler) GetMyShifts(c *gin.Context) {
	record := workerFromContext(c)
	if record == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Worker context missing"})
		return
	}

	_, schedule, ok := h.loadSchedule(c, record.BusinessID, c.Param("month"))
	if !ok {
		return
	}

	type myShift struct {
		ShiftID  string `json:"shift_id"`
		Date     string `json:"date"`
		Name     string `json:"name"`
		Start    string `json:"start"`
		End      string `json:"end"`
		RoleName string `json:"role_name"`
	}
	var mine []myShift
	for date, shifts := range schedule.Days {
		for _, shift := range shifts {
			for _, a := range shift.AssignedWorkers {
				if a.WorkerID == record.ID {
					mine = append(mine, myShift{
						ShiftID:  shift.ID,
						Date:     date,
						Name:     shift.Name,
						Start:    shift.Start,
						End:      shift.End,
						RoleName: a.RoleName,
					})
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"shifts": mine})
}

// CreateTimeOffRequest files a pending time-off request for the worker
func (h *Handler) CreateTimeOffRequest(c *gin.Context) {
	record := workerFromContext(c)
	if record == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Worker context missing"})
		return
	}

	var req struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be formatted YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be formatted YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date is before start_date"})
		return
	}

	request := database.TimeOffRequest{
		BusinessID: record.BusinessID,
		WorkerID:   record.ID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Status:     models.RequestPending,
	}
	if err := h.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request})
}

// ListTimeOffRequests returns all time-off requests for the business
func (h *Handler) ListTimeOffRequests(c *gin.Context) {
	businessID := c.GetString("businessID")
	var requests []database.TimeOffRequest
	if err := h.DB.Where("business_id = ?", businessID).Order("created_at desc").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// DecideTimeOffRequest moves a pending request to approved or denied.
// Decided requests are terminal.
func (h *Handler) DecideTimeOffRequest(c *gin.Context) {
	businessID := c.GetString("businessID")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.RequestApproved && req.Status != models.RequestDenied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or denied"})
		return
	}

	var request database.TimeOffRequest
	if err := h.DB.First(&request, "id = ? AND business_id = ?", c.Param("id"), businessID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if request.Status != models.RequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Request already decided"})
		return
	}

	request.Status = req.Status
	if err := h.DB.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request})
}
