package handlers

import (
	"smoketrack/internal/middleware"
	"smoketrack/internal/services"
	"smoketrack/internal/utils"

	"github.com/gin-gonic/gin"
)

// SweepHandler exposes the background sweep jobs for on-demand runs.
type SweepHandler struct {
	sweepService services.SweepService
}

func NewSweepHandler(sweepService services.SweepService) *SweepHandler {
	return &SweepHandler{
		sweepService: sweepService,
	}
}

// RefreshStatuses re-derives compliance statuses for the caller's fleet.
func (h *SweepHandler) RefreshStatuses(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	updated, err := h.sweepService.RefreshStatuses(c.Request.Context(), services.SweepScope{UserID: &userID})
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to refresh statuses")
		return
	}

	utils.SuccessResponse(c, "Statuses refreshed", gin.H{"updated": updated})
}

// GenerateReminders seeds upcoming reminders across all fleets.
func (h *SweepHandler) GenerateReminders(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	created, err := h.sweepService.GenerateUpcomingReminders(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to generate reminders")
		return
	}

	utils.SuccessResponse(c, "Reminders generated", gin.H{"created": created})
}

// DispatchReminders sends every reminder whose date has arrived.
func (h *SweepHandler) DispatchReminders(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	dispatched, err := h.sweepService.DispatchDueReminders(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to dispatch reminders")
		return
	}

	utils.SuccessResponse(c, "Reminders dispatched", gin.H{"dispatched": dispatched})
}
