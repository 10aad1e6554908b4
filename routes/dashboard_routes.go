package routes

import (
	"smoketrack/internal/handlers"
	"smoketrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDashboardRoutes sets up the fleet dashboard routes.
func SetupDashboardRoutes(r *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler, jwtSecret string) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthRequired(jwtSecret))
	{
		dashboard.GET("/stats", dashboardHandler.GetStats)
	}
}
