package routes

import (
	"smoketrack/internal/handlers"
	"smoketrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSweepRoutes exposes the background sweep jobs for manual runs.
func SetupSweepRoutes(r *gin.RouterGroup, sweepHandler *handlers.SweepHandler, jwtSecret string) {
	sweeps := r.Group("/sweeps")
	sweeps.Use(middleware.AuthRequired(jwtSecret))
	{
		sweeps.POST("/refresh-statuses", sweepHandler.RefreshStatuses)
		sweeps.POST("/generate-reminders", sweepHandler.GenerateReminders)
		sweeps.POST("/dispatch-reminders", sweepHandler.DispatchReminders)
	}
}
