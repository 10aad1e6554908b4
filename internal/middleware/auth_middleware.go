package middleware

import (
	"net/http"
	"strings"

	"smoketrack/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthRequired validates the bearer token and puts the caller's user ID
// into the request context.
func AuthRequired(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, secretKey)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}

// GetUserID reads the authenticated user's ID from the request context.
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}

	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, false
	}

	return userID, true
}

// RequireUserID aborts with 401 when the request carries no authenticated
// user.
func RequireUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required")
		c.Abort()
	}
	return userID, ok
}
