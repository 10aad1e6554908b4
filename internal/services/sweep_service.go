package services

import (
	"context"
	"fmt"
	"time"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/pkg/logger"
	"smoketrack/pkg/notify"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

// SweepScope limits a status refresh to one user's fleet. A nil UserID
// means every vehicle.
type SweepScope struct {
	UserID *primitive.ObjectID
}

type SweepService interface {
	// RefreshStatuses re-derives the stored status of every vehicle in
	// scope and persists only the ones that changed. Returns the number of
	// vehicles updated.
	RefreshStatuses(ctx context.Context, scope SweepScope) (int, error)

	// GenerateUpcomingReminders seeds reminders for every vehicle with a
	// future due date, using each owner's configured offsets. Returns the
	// number of reminders created.
	GenerateUpcomingReminders(ctx context.Context) (int, error)

	// DispatchDueReminders notifies and marks sent every unsent reminder
	// whose date has arrived. A reminder whose notification fails stays
	// unsent and is retried on the next sweep. Returns the number
	// dispatched.
	DispatchDueReminders(ctx context.Context) (int, error)
}

type sweepService struct {
	vehicleRepo  interfaces.VehicleRepository
	userRepo     interfaces.UserRepository
	reminderRepo interfaces.ReminderRepository
	reminderSvc  ReminderService
	calculator   *StatusCalculator
	sink         notify.Sink
	clock        Clock
	log          *logger.Logger

	// Coalesces overlapping runs of the same job.
	jobs singleflight.Group
}

func NewSweepService(
	vehicleRepo interfaces.VehicleRepository,
	userRepo interfaces.UserRepository,
	reminderRepo interfaces.ReminderRepository,
	reminderSvc ReminderService,
	calculator *StatusCalculator,
	sink notify.Sink,
	clock Clock,
	log *logger.Logger,
) SweepService {
	return &sweepService{
		vehicleRepo:  vehicleRepo,
		userRepo:     userRepo,
		reminderRepo: reminderRepo,
		reminderSvc:  reminderSvc,
		calculator:   calculator,
		sink:         sink,
		clock:        clock,
		log:          log,
	}
}

func (s *sweepService) RefreshStatuses(ctx context.Context, scope SweepScope) (int, error) {
	key := "refresh_statuses"
	if scope.UserID != nil {
		key = fmt.Sprintf("refresh_statuses_%s", scope.UserID.Hex())
	}

	result, err, _ := s.jobs.Do(key, func() (interface{}, error) {
		return s.refreshStatuses(ctx, scope)
	})
	if err != nil {
		return 0, err
	}

	return result.(int), nil
}

func (s *sweepService) refreshStatuses(ctx context.Context, scope SweepScope) (int, error) {
	started := s.clock.Now()

	var vehicles []*models.Vehicle
	var err error

	if scope.UserID != nil {
		vehicles, err = s.vehicleRepo.GetByUserID(ctx, *scope.UserID, nil)
	} else {
		vehicles, err = s.vehicleRepo.GetAll(ctx)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list vehicles for status refresh: %w", err)
	}

	updated := 0
	for _, vehicle := range vehicles {
		newStatus := s.calculator.DeriveStatus(vehicle.NextDueDate, s.clock.Now())
		if newStatus == vehicle.Status {
			continue
		}

		if err := s.vehicleRepo.Update(ctx, vehicle.ID, map[string]interface{}{"status": newStatus}); err != nil {
			return updated, fmt.Errorf("failed to refresh status for vehicle %s: %w", vehicle.ID.Hex(), err)
		}
		updated++
	}

	s.log.LogSweepRun("refresh_statuses", updated, time.Since(started))

	return updated, nil
}

func (s *sweepService) GenerateUpcomingReminders(ctx context.Context) (int, error) {
	result, err, _ := s.jobs.Do("generate_reminders", func() (interface{}, error) {
		return s.generateUpcomingReminders(ctx)
	})
	if err != nil {
		return 0, err
	}

	return result.(int), nil
}

func (s *sweepService) generateUpcomingReminders(ctx context.Context) (int, error) {
	started := s.clock.Now()

	vehicles, err := s.vehicleRepo.GetWithDueDateFrom(ctx, started)
	if err != nil {
		return 0, fmt.Errorf("failed to list vehicles with upcoming due dates: %w", err)
	}

	owners := make(map[primitive.ObjectID]*models.User)
	created := 0

	for _, vehicle := range vehicles {
		if vehicle.NextDueDate == nil {
			continue
		}

		owner, ok := owners[vehicle.UserID]
		if !ok {
			owner, err = s.userRepo.GetByID(ctx, vehicle.UserID)
			if err != nil {
				s.log.WithError(err).WithVehicleID(vehicle.ID).Warn("Skipping vehicle with unresolvable owner")
				continue
			}
			owners[vehicle.UserID] = owner
		}

		count, err := s.reminderSvc.GenerateForVehicle(ctx, vehicle, *vehicle.NextDueDate, owner.ReminderDays())
		if err != nil {
			return created, err
		}
		created += count
	}

	s.log.LogSweepRun("generate_reminders", created, time.Since(started))

	return created, nil
}

func (s *sweepService) DispatchDueReminders(ctx context.Context) (int, error) {
	result, err, _ := s.jobs.Do("dispatch_reminders", func() (interface{}, error) {
		return s.dispatchDueReminders(ctx)
	})
	if err != nil {
		return 0, err
	}

	return result.(int), nil
}

func (s *sweepService) dispatchDueReminders(ctx context.Context) (int, error) {
	started := s.clock.Now()

	due, err := s.reminderRepo.GetDueUnsent(ctx, started)
	if err != nil {
		return 0, fmt.Errorf("failed to list due reminders: %w", err)
	}

	dispatched := 0
	for _, reminder := range due {
		vehicle, err := s.vehicleRepo.GetByID(ctx, reminder.VehicleID)
		if err != nil {
			s.log.WithError(err).Warnf("Skipping reminder %s for missing vehicle", reminder.ID.Hex())
			continue
		}

		owner, err := s.userRepo.GetByID(ctx, vehicle.UserID)
		if err != nil {
			s.log.WithError(err).WithVehicleID(vehicle.ID).Warn("Skipping reminder with unresolvable owner")
			continue
		}

		channel := notify.ChannelEmail
		recipient := owner.Email
		if reminder.ReminderType == models.ReminderTypeSMS {
			channel = notify.ChannelSMS
			recipient = owner.Phone
		}

		summary := &notify.VehicleSummary{
			UnitNumber:  vehicle.UnitNumber,
			VIN:         vehicle.VIN,
			NextDueDate: vehicle.NextDueDate,
		}

		// A failed notification leaves the reminder unsent so the next
		// sweep retries it.
		if err := s.sink.Notify(ctx, channel, recipient, summary); err != nil {
			s.log.WithError(err).Errorf("Failed to dispatch reminder %s", reminder.ID.Hex())
			continue
		}

		if err := s.reminderRepo.MarkSent(ctx, reminder.ID, s.clock.Now()); err != nil {
			return dispatched, fmt.Errorf("failed to mark reminder %s sent: %w", reminder.ID.Hex(), err)
		}

		s.log.LogReminderDispatch(reminder.ID, string(channel), recipient)
		dispatched++
	}

	s.log.LogSweepRun("dispatch_reminders", dispatched, time.Since(started))

	return dispatched, nil
}
