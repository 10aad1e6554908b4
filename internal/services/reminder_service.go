package services

import (
	"context"
	"fmt"
	"time"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/utils"
	"smoketrack/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReminderService interface {
	// GenerateForVehicle creates one unsent reminder per offset day ahead
	// of the due date, skipping offsets that fall in the past or land
	// within a day of an existing reminder. Safe to re-run; returns the
	// number of reminders created.
	GenerateForVehicle(ctx context.Context, vehicle *models.Vehicle, dueDate time.Time, offsetDays []int) (int, error)

	CreateManual(ctx context.Context, vehicleID primitive.ObjectID, reminderDate time.Time, reminderType models.ReminderType) (*models.Reminder, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error)
	GetForVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Reminder, error)
	GetForVehicles(ctx context.Context, vehicleIDs []primitive.ObjectID, filter *interfaces.ReminderFilter) ([]*models.Reminder, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// MarkSent flags a reminder sent without dispatching it, for manual
	// overrides.
	MarkSent(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error)
}

type reminderService struct {
	reminderRepo interfaces.ReminderRepository
	clock        Clock
	log          *logger.Logger
}

func NewReminderService(
	reminderRepo interfaces.ReminderRepository,
	clock Clock,
	log *logger.Logger,
) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		clock:        clock,
		log:          log,
	}
}

func (s *reminderService) GenerateForVehicle(ctx context.Context, vehicle *models.Vehicle, dueDate time.Time, offsetDays []int) (int, error) {
	now := s.clock.Now()
	created := 0

	for _, offset := range offsetDays {
		if offset <= 0 {
			continue
		}

		candidate := dueDate.AddDate(0, 0, -offset)

		// Only strictly future reminders are scheduled.
		if !candidate.After(now) {
			continue
		}

		exists, err := s.reminderRepo.ExistsInWindow(ctx, vehicle.ID, candidate, utils.ReminderDedupWindow)
		if err != nil {
			return created, fmt.Errorf("failed to check existing reminders: %w", err)
		}
		if exists {
			continue
		}

		reminder := &models.Reminder{
			VehicleID:    vehicle.ID,
			ReminderDate: candidate,
			ReminderType: models.ReminderTypeEmail,
			Sent:         false,
		}

		if err := s.reminderRepo.Create(ctx, reminder); err != nil {
			return created, fmt.Errorf("failed to create reminder: %w", err)
		}
		created++
	}

	if created > 0 {
		s.log.WithVehicleID(vehicle.ID).Debugf("Generated %d reminders ahead of %s", created, dueDate.Format("2006-01-02"))
	}

	return created, nil
}

func (s *reminderService) CreateManual(ctx context.Context, vehicleID primitive.ObjectID, reminderDate time.Time, reminderType models.ReminderType) (*models.Reminder, error) {
	if reminderType == "" {
		reminderType = models.ReminderTypeEmail
	}

	reminder := &models.Reminder{
		VehicleID:    vehicleID,
		ReminderDate: reminderDate,
		ReminderType: reminderType,
		Sent:         false,
	}

	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return reminder, nil
}

func (s *reminderService) Get(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	return s.reminderRepo.GetByID(ctx, id)
}

func (s *reminderService) GetForVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Reminder, error) {
	reminders, err := s.reminderRepo.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminders: %w", err)
	}

	return reminders, nil
}

func (s *reminderService) GetForVehicles(ctx context.Context, vehicleIDs []primitive.ObjectID, filter *interfaces.ReminderFilter) ([]*models.Reminder, error) {
	if filter != nil && filter.Upcoming && filter.Now.IsZero() {
		filter.Now = s.clock.Now()
	}

	reminders, err := s.reminderRepo.GetByVehicleIDs(ctx, vehicleIDs, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminders: %w", err)
	}

	return reminders, nil
}

func (s *reminderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.reminderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	return nil
}

func (s *reminderService) MarkSent(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	now := s.clock.Now()

	if err := s.reminderRepo.MarkSent(ctx, id, now); err != nil {
		return nil, fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	reminder, err := s.reminderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return reminder, nil
}
