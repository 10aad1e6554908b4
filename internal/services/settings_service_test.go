package services

import (
	"context"
	"testing"

	"smoketrack/internal/models"
	"smoketrack/internal/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsUpdates(t *testing.T) {
	ctx := context.Background()
	userRepo := newMemUserRepo()
	svc := NewSettingsService(userRepo, testLogger())

	user := &models.User{Email: "fleet@example.com", CompanyName: "Acme Haulage"}
	require.NoError(t, userRepo.Create(ctx, user))

	t.Run("schedule", func(t *testing.T) {
		updated, err := svc.UpdateSchedule(ctx, user.ID, &validators.ScheduleUpdateRequest{
			TestingSchedule: "QUARTERLY",
		})
		require.NoError(t, err)
		assert.Equal(t, models.TestingScheduleQuarterly, updated.TestingSchedule)
	})

	t.Run("reminder days are deduped and sorted descending", func(t *testing.T) {
		updated, err := svc.UpdateReminderDays(ctx, user.ID, &validators.ReminderDaysUpdateRequest{
			DefaultReminderDays: []int{3, 30, 14, 30},
		})
		require.NoError(t, err)
		assert.Equal(t, []int{30, 14, 3}, updated.DefaultReminderDays)
	})

	t.Run("company", func(t *testing.T) {
		updated, err := svc.UpdateCompany(ctx, user.ID, &validators.CompanyUpdateRequest{
			CompanyName: "Acme Freight",
			Phone:       "+15550100",
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme Freight", updated.CompanyName)
		assert.Equal(t, "+15550100", updated.Phone)
	})
}
