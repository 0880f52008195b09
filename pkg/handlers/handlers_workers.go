package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shiftwise/shiftwise-api/pkg/auth"
	"github.com/shiftwise/shiftwise-api/pkg/database"
	"github.com/shiftwise/shiftwise-api/pkg/models"
)

func atoiParam(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}

// workerRequest is the manager-facing worker payload
type workerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Rating  int    `json:"rating"`
	RoleIDs []int  `json:"role_ids"`
}

func (r *workerRequest) validate(business *models.Business) string {
	if r.Name == "" {
		return "name is required"
	}
	if r.Rating < 1 || r.Rating > 10 {
		return "rating must be between 1 and 10"
	}
	for _, id := range r.RoleIDs {
		if _, ok := business.RoleByID(id); !ok {
			return fmt.Sprintf("unknown role id: %d", id)
		}
	}
	return ""
}

// ListWorkers returns the business roster
func (h *Handler) ListWorkers(c *gin.Context) {
	businessID := c.GetString("businessID")
	workers, ok := h.loadWorkers(c, businessID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// CreateWorker adds a worker to the roster and returns the submission token
// the worker uses to send in availability
func (h *Handler) CreateWorker(c *gin.Context) {
	_, business, ok := h.loadBusiness(c)
	if !ok {
		return
	}

	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(business); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	worker := &models.Worker{
		ID:                  fmt.Sprintf("w-%d", time.Now().UnixNano()),
		Name:                req.Name,
		Email:               req.Email,
		Rating:              req.Rating,
		RoleIDs:             req.RoleIDs,
		MonthlyAvailability: map[string]models.MonthAvailability{},
	}

	record := database.WorkerRecord{ID: worker.ID, BusinessID: business.ID}
	if err := record.SetWorker(worker); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode worker"})
		return
	}
	if err := h.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create worker"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"worker": worker,
		"token":  auth.GenerateWorkerToken(worker.ID),
	})
}

// UpdateWorker edits a worker's details and qualifications. Availability is
// untouched; workers own that via their own endpoint.
func (h *Handler) UpdateWorker(c *gin.Context) {
	_, business, ok := h.loadBusiness(c)
	if !ok {
		return
	}

	var record database.WorkerRecord
	if err := h.DB.First(&record, "id = ? AND business_id = ?", c.Param("id"), business.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(business); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	worker, err := record.Worker()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Corrupt worker record"})
		return
	}
	worker.Name = req.Name
	worker.Email = req.Email
	worker.Rating = req.Rating
	worker.RoleIDs = req.RoleIDs

	if err := record.SetWorker(worker); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode worker"})
		return
	}
	if err := h.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save worker"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"worker": worker})
}

// DeleteWorker removes a worker from the roster. Already-generated
// schedules keep their denormalized copies of the worker's name and rating.
func (h *Handler) DeleteWorker(c *gin.Context) {
	businessID := c.GetString("businessID")
	result := h.DB.Where("id = ? AND business_id = ?", c.Param("id"), businessID).Delete(&database.WorkerRecord{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete worker"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Worker deleted"})
}

// GetWorkerToken reissues the submission token for a worker
func (h *Handler) GetWorkerToken(c *gin.Context) {
	businessID := c.GetString("businessID")
	var record database.WorkerRecord
	if err := h.DB.First(&record, "id = ? AND business_id = ?", c.Param("id"), businessID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": auth.GenerateWorkerToken(record.ID)})
}
