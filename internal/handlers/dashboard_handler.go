package handlers

import (
	"smoketrack/internal/middleware"
	"smoketrack/internal/services"
	"smoketrack/internal/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStats returns the fleet compliance summary for the authenticated user.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetStats(c.Request.Context(), userID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to compute dashboard stats")
		return
	}

	utils.SuccessResponse(c, "Dashboard stats retrieved successfully", stats)
}
