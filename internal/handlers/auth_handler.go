package handlers

import (
	"errors"
	"net/http"

	"smoketrack/internal/services"
	"smoketrack/internal/utils"
	"smoketrack/internal/validators"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new account and returns an initial token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var req validators.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateRegister(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", utils.ValidationErrorDetails(err))
		return
	}

	user, tokens, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.ErrorResponse(c, http.StatusConflict, utils.ErrCodeConflict, "Email is already registered")
			return
		}
		utils.InternalErrorResponse(c, "Failed to register")
		return
	}

	utils.CreatedResponse(c, "Account created successfully", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req validators.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateLogin(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", utils.ValidationErrorDetails(err))
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.UnauthorizedResponse(c, "Invalid email or password")
		case errors.Is(err, services.ErrAccountInactive):
			utils.ForbiddenResponse(c, "Account is not active")
		default:
			utils.InternalErrorResponse(c, "Failed to log in")
		}
		return
	}

	utils.SuccessResponse(c, "Logged in successfully", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}
