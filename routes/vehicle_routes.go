package routes

import (
	"smoketrack/internal/handlers"
	"smoketrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupVehicleRoutes sets up the vehicle CRUD routes.
func SetupVehicleRoutes(r *gin.RouterGroup, vehicleHandler *handlers.VehicleHandler, jwtSecret string) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthRequired(jwtSecret))
	{
		vehicles.POST("", vehicleHandler.CreateVehicle)
		vehicles.GET("", vehicleHandler.ListVehicles)
		vehicles.GET("/:id", vehicleHandler.GetVehicle)
		vehicles.PUT("/:id", vehicleHandler.UpdateVehicle)
		vehicles.DELETE("/:id", vehicleHandler.DeleteVehicle)
	}
}
