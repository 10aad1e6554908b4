package services

import (
	"context"
	"testing"
	"time"

	"smoketrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.June, 1)

	userRepo := newMemUserRepo()
	vehicleRepo := newMemVehicleRepo()
	remindRepo := newMemReminderRepo()
	clock := &fakeClock{now: now}

	user := &models.User{Email: "fleet@example.com", CompanyName: "Acme Haulage"}
	require.NoError(t, userRepo.Create(ctx, user))

	addVehicle := func(unit, tag string, due *time.Time, needsRetest bool) *models.Vehicle {
		vehicle := &models.Vehicle{
			UserID:      user.ID,
			UnitNumber:  unit,
			FleetTag:    tag,
			NextDueDate: due,
			NeedsRetest: needsRetest,
		}
		require.NoError(t, vehicleRepo.Create(ctx, vehicle))
		return vehicle
	}

	addVehicle("100", "east", timePtr(date(2024, time.December, 1)), false) // compliant
	dueSoon := addVehicle("101", "east", timePtr(date(2024, time.June, 20)), false)
	addVehicle("102", "west", timePtr(date(2024, time.May, 1)), true) // overdue, flagged
	addVehicle("103", "", nil, false)                                 // no deadline

	// One upcoming reminder inside the 30-day window, one beyond it, one
	// already sent.
	require.NoError(t, remindRepo.Create(ctx, &models.Reminder{
		VehicleID:    dueSoon.ID,
		ReminderDate: date(2024, time.June, 10),
	}))
	require.NoError(t, remindRepo.Create(ctx, &models.Reminder{
		VehicleID:    dueSoon.ID,
		ReminderDate: date(2024, time.August, 10),
	}))
	sent := &models.Reminder{VehicleID: dueSoon.ID, ReminderDate: date(2024, time.June, 12)}
	require.NoError(t, remindRepo.Create(ctx, sent))
	require.NoError(t, remindRepo.MarkSent(ctx, sent.ID, now))

	svc := NewDashboardService(vehicleRepo, remindRepo, NewStatusCalculator(), clock)

	stats, err := svc.GetStats(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalVehicles)
	assert.Equal(t, 2, stats.Compliant)
	assert.Equal(t, 1, stats.DueSoon)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.NeedsRetest)
	assert.Equal(t, 1, stats.UpcomingReminders)

	require.Len(t, stats.DueSoonVehicles, 1)
	assert.Equal(t, "101", stats.DueSoonVehicles[0].UnitNumber)
	require.Len(t, stats.OverdueVehicles, 1)
	assert.Equal(t, "102", stats.OverdueVehicles[0].UnitNumber)

	require.Len(t, stats.ByFleetTag, 3)
	assert.Equal(t, "east", stats.ByFleetTag[0].FleetTag)
	assert.Equal(t, 2, stats.ByFleetTag[0].Total)
	assert.Equal(t, 1, stats.ByFleetTag[0].DueSoon)
	assert.Equal(t, "untagged", stats.ByFleetTag[1].FleetTag)
	assert.Equal(t, "west", stats.ByFleetTag[2].FleetTag)
	assert.Equal(t, 1, stats.ByFleetTag[2].Overdue)
}
