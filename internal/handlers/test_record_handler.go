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

type TestRecordHandler struct {
	testRecordService services.TestRecordService
	vehicleService    services.VehicleService
	clock             services.Clock
}

func NewTestRecordHandler(testRecordService services.TestRecordService, vehicleService services.VehicleService, clock services.Clock) *TestRecordHandler {
	return &TestRecordHandler{
		testRecordService: testRecordService,
		vehicleService:    vehicleService,
		clock:             clock,
	}
}

// CreateTestRecord records a test outcome and returns the record along
// with the vehicle's updated compliance state.
func (h *TestRecordHandler) CreateTestRecord(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req validators.TestRecordCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateTestRecordCreate(&req, h.clock.Now()); err != nil {
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

	input := &services.RecordOutcomeInput{
		VehicleID:        vehicleID,
		TestDate:         req.TestDate,
		TestResult:       models.TestResult(req.TestResult),
		TesterName:       req.TesterName,
		Notes:            req.Notes,
		ScheduleOverride: models.TestingSchedule(req.ScheduleOverride),
	}

	record, vehicle, err := h.testRecordService.RecordOutcome(c.Request.Context(), input)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to record test outcome")
		return
	}

	utils.CreatedResponse(c, "Test outcome recorded successfully", gin.H{
		"test_record": record,
		"vehicle":     vehicle,
	})
}

// ListTestRecords returns a vehicle's test history, latest first.
func (h *TestRecordHandler) ListTestRecords(c *gin.Context) {
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

	records, err := h.testRecordService.GetRecords(c.Request.Context(), vehicleID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to list test records")
		return
	}

	params := utils.GetPaginationParams(c)
	total := int64(len(records))
	start := params.GetSkip()
	if start > len(records) {
		start = len(records)
	}
	end := start + params.GetLimit()
	if end > len(records) {
		end = len(records)
	}

	utils.SuccessResponseWithMeta(c, "Test records retrieved successfully", records[start:end], &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      end - start,
	})
}

// DeleteTestRecord removes a test record and returns the vehicle with its
// recomputed compliance state.
func (h *TestRecordHandler) DeleteTestRecord(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid test record ID")
		return
	}

	record, err := h.testRecordService.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			utils.NotFoundResponse(c, "Test record not found")
			return
		}
		utils.InternalErrorResponse(c, "Failed to look up test record")
		return
	}

	if !h.ownsVehicle(c, userID, record.VehicleID) {
		return
	}

	vehicle, err := h.testRecordService.DeleteOutcome(c.Request.Context(), recordID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			utils.NotFoundResponse(c, "Test record not found")
			return
		}
		utils.InternalErrorResponse(c, "Failed to delete test record")
		return
	}

	utils.SuccessResponse(c, "Test record deleted successfully", gin.H{"vehicle": vehicle})
}

func (h *TestRecordHandler) ownsVehicle(c *gin.Context, userID, vehicleID primitive.ObjectID) bool {
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
