package routes

import (
	"smoketrack/internal/handlers"
	"smoketrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSettingsRoutes sets up the account settings routes.
func SetupSettingsRoutes(r *gin.RouterGroup, settingsHandler *handlers.SettingsHandler, jwtSecret string) {
	settings := r.Group("/settings")
	settings.Use(middleware.AuthRequired(jwtSecret))
	{
		settings.GET("", settingsHandler.GetSettings)
		settings.PUT("/company", settingsHandler.UpdateCompany)
		settings.PUT("/schedule", settingsHandler.UpdateSchedule)
		settings.PUT("/reminder-days", settingsHandler.UpdateReminderDays)
	}
}
