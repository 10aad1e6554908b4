package handlers

import (
	"errors"
	"net/http"

	"smoketrack/internal/middleware"
	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/services"
	"smoketrack/internal/utils"
	"smoketrack/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleHandler struct {
	vehicleService services.VehicleService
}

func NewVehicleHandler(vehicleService services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
	}
}

// CreateVehicle registers a new vehicle for the authenticated user.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req validators.VehicleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateVehicleCreate(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", utils.ValidationErrorDetails(err))
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to create vehicle")
		return
	}

	utils.CreatedResponse(c, "Vehicle created successfully", vehicle)
}

// ListVehicles returns the user's fleet with optional status, search and
// sort parameters.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	filter := &interfaces.VehicleFilter{
		Status:    models.ComplianceStatus(c.Query("status")),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "next_due_date"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}

	vehicles, err := h.vehicleService.List(c.Request.Context(), userID, filter)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to list vehicles")
		return
	}

	utils.SuccessResponseWithMeta(c, "Vehicles retrieved successfully", vehicles, &utils.Meta{Count: len(vehicles)})
}

// GetVehicle returns one vehicle with a freshly derived status.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	vehicle, err := h.vehicleService.GetByID(c.Request.Context(), userID, vehicleID)
	if err != nil {
		h.respondVehicleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle retrieved successfully", vehicle)
}

// UpdateVehicle applies a partial update to a vehicle.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	var req validators.VehicleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateVehicleUpdate(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", utils.ValidationErrorDetails(err))
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), userID, vehicleID, &req)
	if err != nil {
		h.respondVehicleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle updated successfully", vehicle)
}

// DeleteVehicle removes a vehicle and its test and reminder history.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	if err := h.vehicleService.Delete(c.Request.Context(), userID, vehicleID); err != nil {
		h.respondVehicleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle deleted successfully", nil)
}

func (h *VehicleHandler) respondVehicleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		utils.NotFoundResponse(c, "Vehicle not found")
	case errors.Is(err, services.ErrVehicleOwnership):
		utils.ForbiddenResponse(c, "Vehicle does not belong to this user")
	default:
		utils.InternalErrorResponse(c, "Vehicle operation failed")
	}
}
