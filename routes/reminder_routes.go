package routes

import (
	"smoketrack/internal/handlers"
	"smoketrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReminderRoutes sets up the reminder management routes.
func SetupReminderRoutes(r *gin.RouterGroup, reminderHandler *handlers.ReminderHandler, jwtSecret string) {
	reminders := r.Group("/reminders")
	reminders.Use(middleware.AuthRequired(jwtSecret))
	{
		reminders.GET("", reminderHandler.ListReminders)
		reminders.GET("/vehicle/:vehicleId", reminderHandler.ListVehicleReminders)
		reminders.POST("", reminderHandler.CreateReminder)
		reminders.DELETE("/:id", reminderHandler.DeleteReminder)
		reminders.PUT("/:id/sent", reminderHandler.MarkReminderSent)
	}
}
