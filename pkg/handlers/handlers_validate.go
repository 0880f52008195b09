package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiftwise/shiftwise-api/pkg/scheduler"
)

// ValidateSetup checks the stored business config and roster for problems
// that would block or distort generation, without running the engine
func (h *Handler) ValidateSetup(c *gin.Context) {
	_, business, ok := h.loadBusiness(c)
	if !ok {
		return
	}
	workers, ok := h.loadWorkers(c, business.ID)
	if !ok {
		return
	}

	problems := scheduler.ValidateConfig(business, workers)

	if !business.SetupComplete() {
		problems = append(problems, "setup incomplete: at least one role and one shift are required")
	}
	if len(workers) == 0 {
		problems = append(problems, "no workers on this business")
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    len(problems) == 0,
		"problems": problems,
		"stats": gin.H{
			"role_count":   len(business.Roles),
			"worker_count": len(workers),
		},
	})
}
