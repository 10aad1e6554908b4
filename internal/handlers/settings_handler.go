package handlers

import (
	"errors"
	"net/http"

	"smoketrack/internal/middleware"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/services"
	"smoketrack/internal/utils"
	"smoketrack/internal/validators"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetSettings returns the authenticated user's account settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	user, err := h.settingsService.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			utils.NotFoundResponse(c, "User not found")
			return
		}
		utils.InternalErrorResponse(c, "Failed to get settings")
		return
	}

	utils.SuccessResponse(c, "Settings retrieved successfully", user)
}

// UpdateCompany updates the company profile fields.
func (h *SettingsHandler) UpdateCompany(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req validators.CompanyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateCompanyUpdate(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", utils.ValidationErrorDetails(err))
		return
	}

	user, err := h.settingsService.UpdateCompany(c.Request.Context(), userID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to update company settings")
		return
	}

	utils.SuccessResponse(c, "Company settings updated successfully", user)
}

// UpdateSchedule changes the testing cadence applied to future passes.
func (h *SettingsHandler) UpdateSchedule(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req validators.ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateScheduleUpdate(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", utils.ValidationErrorDetails(err))
		return
	}

	user, err := h.settingsService.UpdateSchedule(c.Request.Context(), userID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to update testing schedule")
		return
	}

	utils.SuccessResponse(c, "Testing schedule updated successfully", user)
}

// UpdateReminderDays changes the default reminder offsets.
func (h *SettingsHandler) UpdateReminderDays(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req validators.ReminderDaysUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateReminderDaysUpdate(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", utils.ValidationErrorDetails(err))
		return
	}

	user, err := h.settingsService.UpdateReminderDays(c.Request.Context(), userID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to update reminder days")
		return
	}

	utils.SuccessResponse(c, "Reminder days updated successfully", user)
}
