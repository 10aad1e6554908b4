package routes

import (
	"smoketrack/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the public authentication routes.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
}
