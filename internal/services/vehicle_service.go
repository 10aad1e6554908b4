package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/validators"
	"smoketrack/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrVehicleOwnership = errors.New("vehicle does not belong to this user")

type VehicleService interface {
	Create(ctx context.Context, userID primitive.ObjectID, req *validators.VehicleCreateRequest) (*models.Vehicle, error)
	Update(ctx context.Context, userID, vehicleID primitive.ObjectID, req *validators.VehicleUpdateRequest) (*models.Vehicle, error)
	Delete(ctx context.Context, userID, vehicleID primitive.ObjectID) error

	// GetByID returns the vehicle with its status freshly derived from the
	// current time; a stale stored status is corrected and persisted.
	GetByID(ctx context.Context, userID, vehicleID primitive.ObjectID) (*models.Vehicle, error)

	// List returns the user's vehicles, each with freshly derived status.
	List(ctx context.Context, userID primitive.ObjectID, filter *interfaces.VehicleFilter) ([]*models.Vehicle, error)
}

type vehicleService struct {
	vehicleRepo    interfaces.VehicleRepository
	testRecordRepo interfaces.TestRecordRepository
	reminderRepo   interfaces.ReminderRepository
	txnManager     interfaces.TransactionManager
	calculator     *StatusCalculator
	clock          Clock
	log            *logger.Logger
}

func NewVehicleService(
	vehicleRepo interfaces.VehicleRepository,
	testRecordRepo interfaces.TestRecordRepository,
	reminderRepo interfaces.ReminderRepository,
	txnManager interfaces.TransactionManager,
	calculator *StatusCalculator,
	clock Clock,
	log *logger.Logger,
) VehicleService {
	return &vehicleService{
		vehicleRepo:    vehicleRepo,
		testRecordRepo: testRecordRepo,
		reminderRepo:   reminderRepo,
		txnManager:     txnManager,
		calculator:     calculator,
		clock:          clock,
		log:            log,
	}
}

func (s *vehicleService) Create(ctx context.Context, userID primitive.ObjectID, req *validators.VehicleCreateRequest) (*models.Vehicle, error) {
	fuelType := models.FuelTypeDiesel
	if req.FuelType != "" {
		fuelType = models.FuelType(req.FuelType)
	}

	now := s.clock.Now()
	vehicle := &models.Vehicle{
		UserID:       userID,
		UnitNumber:   strings.TrimSpace(req.UnitNumber),
		VIN:          strings.ToUpper(strings.TrimSpace(req.VIN)),
		LicensePlate: strings.ToUpper(strings.TrimSpace(req.LicensePlate)),
		Make:         req.Make,
		Model:        req.Model,
		EngineYear:   req.EngineYear,
		FuelType:     fuelType,
		FleetTag:     strings.TrimSpace(req.FleetTag),
		Notes:        req.Notes,
		NextDueDate:  req.NextDueDate,
		Status:       s.calculator.DeriveStatus(req.NextDueDate, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.log.WithUserID(userID).WithVehicleID(vehicle.ID).Info("Vehicle created")

	return vehicle, nil
}

func (s *vehicleService) Update(ctx context.Context, userID, vehicleID primitive.ObjectID, req *validators.VehicleUpdateRequest) (*models.Vehicle, error) {
	vehicle, err := s.getOwned(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.UnitNumber != "" {
		updates["unit_number"] = strings.TrimSpace(req.UnitNumber)
	}
	if req.VIN != "" {
		updates["vin"] = strings.ToUpper(strings.TrimSpace(req.VIN))
	}
	if req.LicensePlate != "" {
		updates["license_plate"] = strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	}
	if req.Make != "" {
		updates["make"] = req.Make
	}
	if req.Model != "" {
		updates["model"] = req.Model
	}
	if req.EngineYear != 0 {
		updates["engine_year"] = req.EngineYear
	}
	if req.FuelType != "" {
		updates["fuel_type"] = models.FuelType(req.FuelType)
	}
	if req.FleetTag != "" {
		updates["fleet_tag"] = strings.TrimSpace(req.FleetTag)
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if req.NextDueDate != nil {
		updates["next_due_date"] = *req.NextDueDate
		updates["status"] = s.calculator.DeriveStatus(req.NextDueDate, s.clock.Now())
	}

	if len(updates) == 0 {
		return vehicle, nil
	}

	if err := s.vehicleRepo.Update(ctx, vehicleID, updates); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	return s.vehicleRepo.GetByID(ctx, vehicleID)
}

// Delete removes the vehicle along with its test records and reminders.
func (s *vehicleService) Delete(ctx context.Context, userID, vehicleID primitive.ObjectID) error {
	if _, err := s.getOwned(ctx, userID, vehicleID); err != nil {
		return err
	}

	err := s.txnManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.testRecordRepo.DeleteByVehicleID(ctx, vehicleID); err != nil {
			return fmt.Errorf("failed to delete vehicle test records: %w", err)
		}
		if err := s.reminderRepo.DeleteByVehicleID(ctx, vehicleID); err != nil {
			return fmt.Errorf("failed to delete vehicle reminders: %w", err)
		}
		if err := s.vehicleRepo.Delete(ctx, vehicleID); err != nil {
			return fmt.Errorf("failed to delete vehicle: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithUserID(userID).WithVehicleID(vehicleID).Info("Vehicle deleted")

	return nil
}

func (s *vehicleService) GetByID(ctx context.Context, userID, vehicleID primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.getOwned(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshStatus(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

func (s *vehicleService) List(ctx context.Context, userID primitive.ObjectID, filter *interfaces.VehicleFilter) ([]*models.Vehicle, error) {
	vehicles, err := s.vehicleRepo.GetByUserID(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	for _, vehicle := range vehicles {
		if err := s.refreshStatus(ctx, vehicle); err != nil {
			return nil, err
		}
	}

	return vehicles, nil
}

func (s *vehicleService) getOwned(ctx context.Context, userID, vehicleID primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrVehicleOwnership
	}
	return vehicle, nil
}

// refreshStatus re-derives the vehicle's status and persists it when the
// stored value has gone stale.
func (s *vehicleService) refreshStatus(ctx context.Context, vehicle *models.Vehicle) error {
	derived := s.calculator.DeriveStatus(vehicle.NextDueDate, s.clock.Now())
	if derived == vehicle.Status {
		return nil
	}

	if err := s.vehicleRepo.Update(ctx, vehicle.ID, map[string]interface{}{"status": derived}); err != nil {
		return fmt.Errorf("failed to refresh vehicle status: %w", err)
	}
	vehicle.Status = derived

	return nil
}
