package routes

import (
	"smoketrack/internal/handlers"
	"smoketrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTestRecordRoutes sets up the test outcome routes.
func SetupTestRecordRoutes(r *gin.RouterGroup, testRecordHandler *handlers.TestRecordHandler, jwtSecret string) {
	records := r.Group("/test-records")
	records.Use(middleware.AuthRequired(jwtSecret))
	{
		records.POST("", testRecordHandler.CreateTestRecord)
		records.GET("/vehicle/:vehicleId", testRecordHandler.ListTestRecords)
		records.DELETE("/:id", testRecordHandler.DeleteTestRecord)
	}
}
