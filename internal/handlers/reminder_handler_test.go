package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubClock struct {
	now time.Time
}

func (c stubClock) Now() time.Time {
	return c.now
}

type stubReminderService struct {
	reminder *models.Reminder
	getErr   error
	deleted  []primitive.ObjectID
	marked   []primitive.ObjectID
}

func (s *stubReminderService) GenerateForVehicle(ctx context.Context, vehicle *models.Vehicle, dueDate time.Time, offsetDays []int) (int, error) {
	return 0, nil
}

func (s *stubReminderService) CreateManual(ctx context.Context, vehicleID primitive.ObjectID, reminderDate time.Time, reminderType models.ReminderType) (*models.Reminder, error) {
	return &models.Reminder{VehicleID: vehicleID, ReminderDate: reminderDate, ReminderType: reminderType}, nil
}

func (s *stubReminderService) Get(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.reminder, nil
}

func (s *stubReminderService) GetForVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Reminder, error) {
	return nil, nil
}

func (s *stubReminderService) GetForVehicles(ctx context.Context, vehicleIDs []primitive.ObjectID, filter *interfaces.ReminderFilter) ([]*models.Reminder, error) {
	return nil, nil
}

func (s *stubReminderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubReminderService) MarkSent(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	s.marked = append(s.marked, id)
	return s.reminder, nil
}

func setupReminderRouter(reminderSvc services.ReminderService, vehicleSvc services.VehicleService, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})

	handler := NewReminderHandler(reminderSvc, vehicleSvc, stubClock{now: time.Now()})
	router.DELETE("/reminders/:id", handler.DeleteReminder)
	router.PUT("/reminders/:id/sent", handler.MarkReminderSent)
	return router
}

func TestDeleteReminderOwned(t *testing.T) {
	reminderID := primitive.NewObjectID()
	svc := &stubReminderService{reminder: &models.Reminder{ID: reminderID, VehicleID: primitive.NewObjectID()}}
	router := setupReminderRouter(svc, &stubVehicleService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/reminders/"+reminderID.Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []primitive.ObjectID{reminderID}, svc.deleted)
}

func TestDeleteReminderWrongOwner(t *testing.T) {
	reminderID := primitive.NewObjectID()
	svc := &stubReminderService{reminder: &models.Reminder{ID: reminderID, VehicleID: primitive.NewObjectID()}}
	router := setupReminderRouter(svc, &stubVehicleService{err: services.ErrVehicleOwnership}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/reminders/"+reminderID.Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.deleted)
}

func TestDeleteReminderNotFound(t *testing.T) {
	svc := &stubReminderService{getErr: interfaces.ErrNotFound}
	router := setupReminderRouter(svc, &stubVehicleService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/reminders/"+primitive.NewObjectID().Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, svc.deleted)
}

func TestMarkReminderSentOwned(t *testing.T) {
	reminderID := primitive.NewObjectID()
	svc := &stubReminderService{reminder: &models.Reminder{ID: reminderID, VehicleID: primitive.NewObjectID()}}
	router := setupReminderRouter(svc, &stubVehicleService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/reminders/"+reminderID.Hex()+"/sent", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []primitive.ObjectID{reminderID}, svc.marked)
}

func TestMarkReminderSentWrongOwner(t *testing.T) {
	reminderID := primitive.NewObjectID()
	svc := &stubReminderService{reminder: &models.Reminder{ID: reminderID, VehicleID: primitive.NewObjectID()}}
	router := setupReminderRouter(svc, &stubVehicleService{err: services.ErrVehicleOwnership}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/reminders/"+reminderID.Hex()+"/sent", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.marked)
}
