package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordOutcomeInput describes a recorded test outcome. ScheduleOverride,
// when set, takes precedence over the vehicle owner's testing schedule.
type RecordOutcomeInput struct {
	VehicleID        primitive.ObjectID
	TestDate         time.Time
	TestResult       models.TestResult
	TesterName       string
	Notes            string
	ScheduleOverride models.TestingSchedule
}

type TestRecordService interface {
	// RecordOutcome persists a test record and applies its effect on the
	// vehicle: a pass advances the due date and seeds reminders, a fail
	// flags the vehicle for retest without touching the deadline.
	RecordOutcome(ctx context.Context, input *RecordOutcomeInput) (*models.TestRecord, *models.Vehicle, error)

	// DeleteOutcome removes a test record and recomputes the vehicle's due
	// date and flags from the remaining history.
	DeleteOutcome(ctx context.Context, recordID primitive.ObjectID) (*models.Vehicle, error)

	GetRecord(ctx context.Context, recordID primitive.ObjectID) (*models.TestRecord, error)
	GetRecords(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.TestRecord, error)
}

type testRecordService struct {
	testRecordRepo interfaces.TestRecordRepository
	vehicleRepo    interfaces.VehicleRepository
	userRepo       interfaces.UserRepository
	reminderSvc    ReminderService
	calculator     *StatusCalculator
	txnManager     interfaces.TransactionManager
	clock          Clock
	log            *logger.Logger

	// Per-vehicle locks serialize concurrent read-modify-write cycles
	// against the same vehicle record.
	vehicleLocks sync.Map
}

func NewTestRecordService(
	testRecordRepo interfaces.TestRecordRepository,
	vehicleRepo interfaces.VehicleRepository,
	userRepo interfaces.UserRepository,
	reminderSvc ReminderService,
	calculator *StatusCalculator,
	txnManager interfaces.TransactionManager,
	clock Clock,
	log *logger.Logger,
) TestRecordService {
	return &testRecordService{
		testRecordRepo: testRecordRepo,
		vehicleRepo:    vehicleRepo,
		userRepo:       userRepo,
		reminderSvc:    reminderSvc,
		calculator:     calculator,
		txnManager:     txnManager,
		clock:          clock,
		log:            log,
	}
}

func (s *testRecordService) RecordOutcome(ctx context.Context, input *RecordOutcomeInput) (*models.TestRecord, *models.Vehicle, error) {
	if input.TestResult != models.TestResultPass && input.TestResult != models.TestResultFail {
		return nil, nil, fmt.Errorf("invalid test result %q", input.TestResult)
	}

	unlock := s.lockVehicle(input.VehicleID)
	defer unlock()

	vehicle, err := s.vehicleRepo.GetByID(ctx, input.VehicleID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	owner, err := s.userRepo.GetByID(ctx, vehicle.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get vehicle owner: %w", err)
	}

	schedule := input.ScheduleOverride
	if schedule == "" {
		schedule = owner.Schedule()
	}

	now := s.clock.Now()
	recordNextDue := s.calculator.NextDueDate(input.TestDate, schedule)

	record := &models.TestRecord{
		VehicleID:   vehicle.ID,
		TestDate:    input.TestDate,
		TestResult:  input.TestResult,
		NextDueDate: recordNextDue,
		TesterName:  input.TesterName,
		Notes:       input.Notes,
	}

	err = s.txnManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.testRecordRepo.Create(ctx, record); err != nil {
			return err
		}

		if input.TestResult == models.TestResultPass {
			newStatus := s.calculator.DeriveStatus(&recordNextDue, now)

			updates := map[string]interface{}{
				"next_due_date": recordNextDue,
				"status":        newStatus,
				"needs_retest":  false,
			}
			if err := s.vehicleRepo.Update(ctx, vehicle.ID, updates); err != nil {
				return err
			}

			vehicle.NextDueDate = &recordNextDue
			vehicle.Status = newStatus
			vehicle.NeedsRetest = false

			if _, err := s.reminderSvc.GenerateForVehicle(ctx, vehicle, recordNextDue, owner.ReminderDays()); err != nil {
				return err
			}
		} else {
			if err := s.vehicleRepo.Update(ctx, vehicle.ID, map[string]interface{}{"needs_retest": true}); err != nil {
				return err
			}

			vehicle.NeedsRetest = true
		}

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record test outcome: %w", err)
	}

	s.log.LogComplianceEvent(vehicle.ID, "test_recorded", map[string]interface{}{
		"test_result":   string(input.TestResult),
		"next_due_date": recordNextDue.Format(time.RFC3339),
		"schedule":      string(schedule),
	})

	return record, vehicle, nil
}

func (s *testRecordService) DeleteOutcome(ctx context.Context, recordID primitive.ObjectID) (*models.Vehicle, error) {
	record, err := s.testRecordRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test record: %w", err)
	}

	unlock := s.lockVehicle(record.VehicleID)
	defer unlock()

	vehicle, err := s.vehicleRepo.GetByID(ctx, record.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	now := s.clock.Now()

	err = s.txnManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.testRecordRepo.Delete(ctx, recordID); err != nil {
			return err
		}

		updates := map[string]interface{}{}

		latestPass, err := s.testRecordRepo.GetLatestPassByVehicleID(ctx, vehicle.ID)
		switch {
		case err == nil:
			newStatus := s.calculator.DeriveStatus(&latestPass.NextDueDate, now)
			updates["next_due_date"] = latestPass.NextDueDate
			updates["status"] = newStatus
			vehicle.NextDueDate = &latestPass.NextDueDate
			vehicle.Status = newStatus
		case errors.Is(err, interfaces.ErrNotFound):
			updates["next_due_date"] = nil
			updates["status"] = models.ComplianceStatusCompliant
			vehicle.NextDueDate = nil
			vehicle.Status = models.ComplianceStatusCompliant
		default:
			return err
		}

		// The retest flag follows the latest remaining outcome: true only
		// when the newest record by test date is a fail.
		needsRetest := false
		latest, err := s.testRecordRepo.GetLatestByVehicleID(ctx, vehicle.ID)
		if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			return err
		}
		if err == nil && latest.TestResult == models.TestResultFail {
			needsRetest = true
		}
		updates["needs_retest"] = needsRetest
		vehicle.NeedsRetest = needsRetest

		return s.vehicleRepo.Update(ctx, vehicle.ID, updates)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete test outcome: %w", err)
	}

	s.log.LogComplianceEvent(vehicle.ID, "test_deleted", map[string]interface{}{
		"record_id": recordID.Hex(),
	})

	return vehicle, nil
}

func (s *testRecordService) GetRecord(ctx context.Context, recordID primitive.ObjectID) (*models.TestRecord, error) {
	return s.testRecordRepo.GetByID(ctx, recordID)
}

func (s *testRecordService) GetRecords(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.TestRecord, error) {
	records, err := s.testRecordRepo.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test records: %w", err)
	}

	return records, nil
}

func (s *testRecordService) lockVehicle(vehicleID primitive.ObjectID) func() {
	mu, _ := s.vehicleLocks.LoadOrStore(vehicleID.Hex(), &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock.Unlock
}
