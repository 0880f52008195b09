package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shiftwise/shiftwise-api/pkg/auth"
	"github.com/shiftwise/shiftwise-api/pkg/database"
	"github.com/shiftwise/shiftwise-api/pkg/models"
	"github.com/shiftwise/shiftwise-api/pkg/scheduler"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB *gorm.DB
}

// AuthMiddleware verifies the JWT token for manager routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Set("businessID", claims.BusinessID)
		c.Next()
	}
}

// WorkerTokenMiddleware verifies the HMAC worker token for worker routes
func (h *Handler) WorkerTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Worker token required"})
			c.Abort()
			return
		}

		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		workerID, err := auth.VerifyWorkerToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid worker token"})
			c.Abort()
			return
		}

		var worker database.WorkerRecord
		if err := h.DB.First(&worker, "id = ?", workerID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown worker"})
			c.Abort()
			return
		}

		c.Set("worker", &worker)
		c.Next()
	}
}

// Login handles manager login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.ManagerUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(user.Username, user.BusinessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// loadBusiness fetches and unmarshals the business config for the
// authenticated manager.
func (h *Handler) loadBusiness(c *gin.Context) (*database.BusinessRecord, *models.Business, bool) {
	businessID := c.GetString("businessID")
	var record database.BusinessRecord
	if err := h.DB.First(&record, "id = ?", businessID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return nil, nil, false
	}
	business, err := record.Business()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Corrupt business config"})
		return nil, nil, false
	}
	return &record, business, true
}

// loadWorkers fetches and unmarshals the full roster for a business, in
// stable creation order so generation stays deterministic.
func (h *Handler) loadWorkers(c *gin.Context, businessID string) ([]*models.Worker, bool) {
	var records []database.WorkerRecord
	if err := h.DB.Where("business_id = ?", businessID).Order("created_at, id").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load workers"})
		return nil, false
	}

	workers := make([]*models.Worker, 0, len(records))
	for i := range records {
		w, err := records[i].Worker()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Corrupt worker record: " + records[i].ID})
			return nil, false
		}
		workers = append(workers, w)
	}
	return workers, true
}

// GetBusiness returns the manager's business config
func (h *Handler) GetBusiness(c *gin.Context) {
	_, business, ok := h.loadBusiness(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"business":       business,
		"setup_complete": business.SetupComplete(),
	})
}

// UpdateBusiness replaces the business roles and weekly template
func (h *Handler) UpdateBusiness(c *gin.Context) {
	record, business, ok := h.loadBusiness(c)
	if !ok {
		return
	}

	var req struct {
		Name           string                              `json:"name"`
		Roles          []models.Role                       `json:"roles"`
		WeeklyTemplate map[time.Weekday]models.DayTemplate `json:"weekly_template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		business.Name = req.Name
	}
	if req.Roles != nil {
		business.Roles = req.Roles
	}
	if req.WeeklyTemplate != nil {
		business.WeeklyTemplate = req.WeeklyTemplate
	}

	if problems := scheduler.ValidateConfig(business, nil); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid configuration", "problems": problems})
		return
	}

	if err := record.SetBusiness(business); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode config"})
		return
	}
	if err := h.DB.Save(record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save business"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business":       business,
		"setup_complete": business.SetupComplete(),
	})
}

// DeleteRole removes a role and prunes every shift requirement and worker
// qualification that referenced it
func (h *Handler) DeleteRole(c *gin.Context) {
	record, business, ok := h.loadBusiness(c)
	if !ok {
		return
	}

	roleID, err := atoiParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return
	}

	var workerRecords []database.WorkerRecord
	if err := h.DB.Where("business_id = ?", business.ID).Find(&workerRecords).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load workers"})
		return
	}
	workers := make([]*models.Worker, 0, len(workerRecords))
	for i := range workerRecords {
		w, err := workerRecords[i].Worker()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Corrupt worker record"})
			return
		}
		workers = append(workers, w)
	}

	scheduler.RemoveRole(business, workers, roleID)

	if err := record.SetBusiness(business); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode config"})
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(record).Error; err != nil {
			return err
		}
		for i := range workerRecords {
			if err := workerRecords[i].SetWorker(workers[i]); err != nil {
				return err
			}
			if err := tx.Save(&workerRecords[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save changes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": business})
}
