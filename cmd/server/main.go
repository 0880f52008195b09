package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/shiftwise/shiftwise-api/pkg/auth"
	"github.com/shiftwise/shiftwise-api/pkg/database"
	"github.com/shiftwise/shiftwise-api/pkg/handlers"
	"github.com/shiftwise/shiftwise-api/pkg/models"
)

// ensureBusinessExists seeds a business on first boot and links any
// manager rows that predate it.
func ensureBusinessExists(db *gorm.DB) string {
	var record database.BusinessRecord
	if err := db.First(&record).Error; err == nil {
		return record.ID
	}

	name := os.Getenv("BUSINESS_NAME")
	if name == "" {
		name = "My Business"
	}
	record = database.BusinessRecord{ID: "default", Name: name}
	_ = record.SetBusiness(&models.Business{ID: record.ID, Name: name})
	if err := db.Create(&record).Error; err != nil {
		log.Fatalf("could not seed business: %v", err)
	}
	db.Model(&database.ManagerUser{}).Where("business_id = ?", "").Update("business_id", record.ID)
	return record.ID
}

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureManagerExists(db)
	ensureBusinessExists(db)
	h := &handlers.Handler{DB: db}

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shiftwise Scheduling API",
			"version": "1.0.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Manager Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.GET("/business", h.GetBusiness)
		admin.PUT("/business", h.UpdateBusiness)
		admin.DELETE("/business/roles/:id", h.DeleteRole)
		admin.GET("/validate", h.ValidateSetup)

		admin.GET("/workers", h.ListWorkers)
		admin.POST("/workers", h.CreateWorker)
		admin.PUT("/workers/:id", h.UpdateWorker)
		admin.DELETE("/workers/:id", h.DeleteWorker)
		admin.GET("/workers/:id/token", h.GetWorkerToken)

		admin.POST("/schedule/generate", h.GenerateSchedule)
		admin.GET("/schedule/stats", h.GetScheduleStats)
		admin.GET("/schedule/:month", h.GetSchedule)
		admin.GET("/schedule/:month/export", h.ExportSchedule)
		admin.POST("/schedule/:month/shifts/:shiftId/workers", h.AddShiftWorker)
		admin.DELETE("/schedule/:month/shifts/:shiftId/workers/:workerId", h.RemoveShiftWorker)

		admin.GET("/timeoff", h.ListTimeOffRequests)
		admin.PUT("/timeoff/:id", h.DecideTimeOffRequest)
	}

	// Worker Endpoints
	worker := r.Group("/worker")
	worker.Use(h.WorkerTokenMiddleware())
	{
		worker.PUT("/availability", h.SubmitAvailability)
		worker.GET("/schedule/:month", h.GetMyShifts)
		worker.POST("/timeoff", h.CreateTimeOffRequest)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
