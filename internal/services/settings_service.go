package services

import (
	"context"
	"fmt"
	"sort"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/validators"
	"smoketrack/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SettingsService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateCompany(ctx context.Context, userID primitive.ObjectID, req *validators.CompanyUpdateRequest) (*models.User, error)
	UpdateSchedule(ctx context.Context, userID primitive.ObjectID, req *validators.ScheduleUpdateRequest) (*models.User, error)
	UpdateReminderDays(ctx context.Context, userID primitive.ObjectID, req *validators.ReminderDaysUpdateRequest) (*models.User, error)
}

type settingsService struct {
	userRepo interfaces.UserRepository
	log      *logger.Logger
}

func NewSettingsService(userRepo interfaces.UserRepository, log *logger.Logger) SettingsService {
	return &settingsService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *settingsService) Get(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *settingsService) UpdateCompany(ctx context.Context, userID primitive.ObjectID, req *validators.CompanyUpdateRequest) (*models.User, error) {
	updates := map[string]interface{}{
		"company_name": req.CompanyName,
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	return s.apply(ctx, userID, updates)
}

// UpdateSchedule changes the testing cadence used for future test passes.
// Deadlines already on vehicles are left alone until their next pass.
func (s *settingsService) UpdateSchedule(ctx context.Context, userID primitive.ObjectID, req *validators.ScheduleUpdateRequest) (*models.User, error) {
	return s.apply(ctx, userID, map[string]interface{}{
		"testing_schedule": models.TestingSchedule(req.TestingSchedule),
	})
}

func (s *settingsService) UpdateReminderDays(ctx context.Context, userID primitive.ObjectID, req *validators.ReminderDaysUpdateRequest) (*models.User, error) {
	days := dedupeDays(req.DefaultReminderDays)

	return s.apply(ctx, userID, map[string]interface{}{
		"default_reminder_days": days,
	})
}

func (s *settingsService) apply(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	if err := s.userRepo.Update(ctx, userID, updates); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	return s.userRepo.GetByID(ctx, userID)
}

// dedupeDays sorts the offsets descending and drops duplicates so reminder
// generation walks them from furthest out to nearest.
func dedupeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
