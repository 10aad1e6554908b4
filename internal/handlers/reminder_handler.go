package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"smoketrack/internal/middleware"
	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/services"
	"smoketrack/internal/utils"
	"smoketrack/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReminderHandler struct {
	reminderService services.ReminderService
	vehicleService  services.VehicleService
	clock           services.Clock
}

func NewReminderHandler(reminderService services.ReminderService, vehicleService services.VehicleService, clock services.Clock) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		vehicleService:  vehicleService,
		clock:           clock,
	}
}

// ListReminders returns reminders across the user's fleet, optionally
// filtered by sent state or restricted to upcoming ones.
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	vehicles, err := h.vehicleService.List(c.Request.Context(), userID, nil)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to list vehicles")
		return
	}

	vehicleIDs := make([]primitive.ObjectID, 0, len(vehicles))
	for _, vehicle := range vehicles {
		vehicleIDs = append(vehicleIDs, vehicle.ID)
	}

	filter := &interfaces.ReminderFilter{Now: h.clock.Now()}
	if raw := c.Query("sent"); raw != "" {
		sent, err := strconv.ParseBool(raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid sent filter")
			return
		}
		filter.Sent = &sent
	}
	if raw := c.Query("upcoming"); raw != "" {
		upcoming, err := strconv.ParseBool(raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid upcoming filter")
			return
		}
		filter.Upcoming = upcoming
	}

	reminders, err := h.reminderService.GetForVehicles(c.Request.Context(), vehicleIDs, filter)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to list reminders")
		return
	}

	params := utils.GetPaginationParams(c)
	total := int64(len(reminders))
	start := params.GetSkip()
	if start > len(reminders) {
		start = len(reminders)
	}
	end := start + params.GetLimit()
	if end > len(reminders) {
		end = len(reminders)
	}

	utils.SuccessResponseWithMeta(c, "Reminders retrieved successfully", reminders[start:end], &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      end - start,
	})
}

// ListVehicleReminders returns one vehicle's reminders, earliest first.
func (h *ReminderHandler) ListVehicleReminders(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("vehicleId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	if !h.ownsVehicle(c, userID, vehicleID) {
		return
	}

	reminders, err := h.reminderService.GetForVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to list reminders")
		return
	}

	utils.SuccessResponseWithMeta(c, "Reminders retrieved successfully", reminders, &utils.Meta{Count: len(reminders)})
}

// CreateReminder adds a manual reminder for a vehicle.
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req validators.ReminderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateReminderCreate(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", utils.ValidationErrorDetails(err))
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(req.VehicleID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	if !h.ownsVehicle(c, userID, vehicleID) {
		return
	}

	reminderType := models.ReminderTypeEmail
	if req.ReminderType != "" {
		reminderType = models.ReminderType(req.ReminderType)
	}

	reminder, err := h.reminderService.CreateManual(c.Request.Context(), vehicleID, req.ReminderDate, reminderType)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to create reminder")
		return
	}

	utils.CreatedResponse(c, "Reminder created successfully", reminder)
}

// DeleteReminder removes a reminder after checking the caller owns its
// vehicle.
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	reminderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid reminder ID")
		return
	}

	reminder, err := h.reminderService.Get(c.Request.Context(), reminderID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			utils.NotFoundResponse(c, "Reminder not found")
			return
		}
		utils.InternalErrorResponse(c, "Failed to get reminder")
		return
	}

	if !h.ownsVehicle(c, userID, reminder.VehicleID) {
		return
	}

	if err := h.reminderService.Delete(c.Request.Context(), reminderID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			utils.NotFoundResponse(c, "Reminder not found")
			return
		}
		utils.InternalErrorResponse(c, "Failed to delete reminder")
		return
	}

	utils.SuccessResponse(c, "Reminder deleted successfully", nil)
}

// MarkReminderSent flags a reminder as handled outside the dispatch sweep.
// Only the owner of the reminder's vehicle may mark it.
func (h *ReminderHandler) MarkReminderSent(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	reminderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid reminder ID")
		return
	}

	existing, err := h.reminderService.Get(c.Request.Context(), reminderID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			utils.NotFoundResponse(c, "Reminder not found")
			return
		}
		utils.InternalErrorResponse(c, "Failed to get reminder")
		return
	}

	if !h.ownsVehicle(c, userID, existing.VehicleID) {
		return
	}

	reminder, err := h.reminderService.MarkSent(c.Request.Context(), reminderID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			utils.NotFoundResponse(c, "Reminder not found")
			return
		}
		utils.InternalErrorResponse(c, "Failed to mark reminder sent")
		return
	}

	utils.SuccessResponse(c, "Reminder marked sent", reminder)
}

func (h *ReminderHandler) ownsVehicle(c *gin.Context, userID, vehicleID primitive.ObjectID) bool {
	_, err := h.vehicleService.GetByID(c.Request.Context(), userID, vehicleID)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			utils.NotFoundResponse(c, "Vehicle not found")
		case errors.Is(err, services.ErrVehicleOwnership):
			utils.ForbiddenResponse(c, "Vehicle does not belong to this user")
		default:
			utils.InternalErrorResponse(c, "Failed to verify vehicle")
		}
		return false
	}
	return true
}
