package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"smoketrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sweepFixture struct {
	svc         SweepService
	userRepo    *memUserRepo
	vehicleRepo *memVehicleRepo
	remindRepo  *memReminderRepo
	sink        *captureSink
	clock       *fakeClock
	user        *models.User
}

func newSweepFixture(t *testing.T, now time.Time) *sweepFixture {
	t.Helper()

	userRepo := newMemUserRepo()
	vehicleRepo := newMemVehicleRepo()
	remindRepo := newMemReminderRepo()
	sink := &captureSink{}
	clock := &fakeClock{now: now}
	log := testLogger()

	user := &models.User{
		Email:       "fleet@example.com",
		CompanyName: "Acme Haulage",
		Phone:       "+15550100",
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	reminderSvc := NewReminderService(remindRepo, clock, log)
	svc := NewSweepService(vehicleRepo, userRepo, remindRepo, reminderSvc, NewStatusCalculator(), sink, clock, log)

	return &sweepFixture{
		svc:         svc,
		userRepo:    userRepo,
		vehicleRepo: vehicleRepo,
		remindRepo:  remindRepo,
		sink:        sink,
		clock:       clock,
		user:        user,
	}
}

func (fx *sweepFixture) addVehicle(t *testing.T, unit string, dueDate *time.Time, status models.ComplianceStatus) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		UserID:      fx.user.ID,
		UnitNumber:  unit,
		VIN:         "1FUJGLDR0CLBP" + unit,
		NextDueDate: dueDate,
		Status:      status,
	}
	require.NoError(t, fx.vehicleRepo.Create(context.Background(), vehicle))
	return vehicle
}

func TestRefreshStatuses(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.June, 1)
	fx := newSweepFixture(t, now)

	// Stored status has gone stale: the deadline passed.
	stale := fx.addVehicle(t, "1001", timePtr(date(2024, time.May, 1)), models.ComplianceStatusDueSoon)
	// Stored status is already correct.
	current := fx.addVehicle(t, "1002", timePtr(date(2024, time.December, 1)), models.ComplianceStatusCompliant)

	updated, err := fx.svc.RefreshStatuses(ctx, SweepScope{})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	refreshed, err := fx.vehicleRepo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceStatusOverdue, refreshed.Status)

	// Only the stale vehicle was written.
	assert.Equal(t, []primitive.ObjectID{stale.ID}, fx.vehicleRepo.updateCalls)

	unchanged, err := fx.vehicleRepo.GetByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceStatusCompliant, unchanged.Status)
}

func TestRefreshStatusesScopedToUser(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.June, 1)
	fx := newSweepFixture(t, now)

	other := &models.User{Email: "other@example.com", CompanyName: "Other"}
	require.NoError(t, fx.userRepo.Create(ctx, other))

	mine := fx.addVehicle(t, "2001", timePtr(date(2024, time.May, 1)), models.ComplianceStatusDueSoon)

	theirs := &models.Vehicle{
		UserID:      other.ID,
		UnitNumber:  "2002",
		NextDueDate: timePtr(date(2024, time.May, 1)),
		Status:      models.ComplianceStatusDueSoon,
	}
	require.NoError(t, fx.vehicleRepo.Create(ctx, theirs))

	updated, err := fx.svc.RefreshStatuses(ctx, SweepScope{UserID: &fx.user.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	refreshed, err := fx.vehicleRepo.GetByID(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceStatusOverdue, refreshed.Status)

	untouched, err := fx.vehicleRepo.GetByID(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceStatusDueSoon, untouched.Status)
}

func TestGenerateUpcomingReminders(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.March, 1)
	fx := newSweepFixture(t, now)

	ahead := fx.addVehicle(t, "3001", timePtr(date(2024, time.May, 1)), models.ComplianceStatusCompliant)
	// Already past due: no reminders to seed.
	fx.addVehicle(t, "3002", timePtr(date(2024, time.January, 1)), models.ComplianceStatusOverdue)
	// No deadline at all.
	fx.addVehicle(t, "3003", nil, models.ComplianceStatusCompliant)

	created, err := fx.svc.GenerateUpcomingReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	reminders, err := fx.remindRepo.GetByVehicleID(ctx, ahead.ID)
	require.NoError(t, err)
	assert.Len(t, reminders, 3)

	// A second run seeds nothing new.
	created, err = fx.svc.GenerateUpcomingReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestGenerateUpcomingRemindersUsesOwnerOffsets(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.March, 1)
	fx := newSweepFixture(t, now)

	require.NoError(t, fx.userRepo.Update(ctx, fx.user.ID, map[string]interface{}{
		"default_reminder_days": []int{7},
	}))

	vehicle := fx.addVehicle(t, "4001", timePtr(date(2024, time.May, 1)), models.ComplianceStatusCompliant)

	created, err := fx.svc.GenerateUpcomingReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	reminders, err := fx.remindRepo.GetByVehicleID(ctx, vehicle.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, date(2024, time.April, 24), reminders[0].ReminderDate)
}

func TestDispatchDueReminders(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.April, 1)
	fx := newSweepFixture(t, now)

	vehicle := fx.addVehicle(t, "5001", timePtr(date(2024, time.April, 15)), models.ComplianceStatusDueSoon)

	due := &models.Reminder{
		VehicleID:    vehicle.ID,
		ReminderDate: date(2024, time.March, 31),
		ReminderType: models.ReminderTypeEmail,
	}
	future := &models.Reminder{
		VehicleID:    vehicle.ID,
		ReminderDate: date(2024, time.April, 12),
		ReminderType: models.ReminderTypeEmail,
	}
	require.NoError(t, fx.remindRepo.Create(ctx, due))
	require.NoError(t, fx.remindRepo.Create(ctx, future))

	dispatched, err := fx.svc.DispatchDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)

	require.Len(t, fx.sink.notified, 1)
	assert.Equal(t, "fleet@example.com", fx.sink.notified[0].Recipient)
	assert.Equal(t, "5001", fx.sink.notified[0].Summary.UnitNumber)

	sent, err := fx.remindRepo.GetByID(ctx, due.ID)
	require.NoError(t, err)
	assert.True(t, sent.Sent)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, now, *sent.SentAt)

	pending, err := fx.remindRepo.GetByID(ctx, future.ID)
	require.NoError(t, err)
	assert.False(t, pending.Sent)
}

func TestDispatchDueRemindersSMSChannel(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.April, 1)
	fx := newSweepFixture(t, now)

	vehicle := fx.addVehicle(t, "6001", timePtr(date(2024, time.April, 15)), models.ComplianceStatusDueSoon)

	reminder := &models.Reminder{
		VehicleID:    vehicle.ID,
		ReminderDate: date(2024, time.March, 31),
		ReminderType: models.ReminderTypeSMS,
	}
	require.NoError(t, fx.remindRepo.Create(ctx, reminder))

	dispatched, err := fx.svc.DispatchDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)

	require.Len(t, fx.sink.notified, 1)
	assert.Equal(t, "+15550100", fx.sink.notified[0].Recipient)
}

func TestDispatchFailureLeavesReminderUnsent(t *testing.T) {
	ctx := context.Background()
	now := date(2024, time.April, 1)
	fx := newSweepFixture(t, now)
	fx.sink.failDelivery = errors.New("smtp unreachable")

	vehicle := fx.addVehicle(t, "7001", timePtr(date(2024, time.April, 15)), models.ComplianceStatusDueSoon)

	reminder := &models.Reminder{
		VehicleID:    vehicle.ID,
		ReminderDate: date(2024, time.March, 31),
		ReminderType: models.ReminderTypeEmail,
	}
	require.NoError(t, fx.remindRepo.Create(ctx, reminder))

	dispatched, err := fx.svc.DispatchDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, dispatched)

	stored, err := fx.remindRepo.GetByID(ctx, reminder.ID)
	require.NoError(t, err)
	assert.False(t, stored.Sent, "a failed delivery must stay unsent for the next sweep")

	// The next sweep with a healthy sink picks it up.
	fx.sink.failDelivery = nil
	dispatched, err = fx.svc.DispatchDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)
}

func TestSweepEndToEnd(t *testing.T) {
	ctx := context.Background()
	fx := newSweepFixture(t, date(2024, time.January, 31))

	vehicleRepo := fx.vehicleRepo
	recordRepo := newMemTestRecordRepo()
	log := testLogger()
	reminderSvc := NewReminderService(fx.remindRepo, fx.clock, log)
	recordSvc := NewTestRecordService(recordRepo, vehicleRepo, fx.userRepo, reminderSvc, NewStatusCalculator(), &memTxnManager{}, fx.clock, log)

	vehicle := fx.addVehicle(t, "8001", nil, models.ComplianceStatusCompliant)

	// A pass on Jan 31 sets the deadline to Jul 31 and seeds reminders.
	_, _, err := recordSvc.RecordOutcome(ctx, &RecordOutcomeInput{
		VehicleID:  vehicle.ID,
		TestDate:   date(2024, time.January, 31),
		TestResult: models.TestResultPass,
	})
	require.NoError(t, err)

	reminders, err := fx.remindRepo.GetByVehicleID(ctx, vehicle.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 3)

	// By Jul 2 the vehicle is due soon and the 30-day reminder has come up.
	fx.clock.now = date(2024, time.July, 2)

	updated, err := fx.svc.RefreshStatuses(ctx, SweepScope{})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	refreshed, err := vehicleRepo.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceStatusDueSoon, refreshed.Status)

	dispatched, err := fx.svc.DispatchDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)

	// Past the deadline the vehicle goes overdue.
	fx.clock.now = date(2024, time.August, 5)

	updated, err = fx.svc.RefreshStatuses(ctx, SweepScope{})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	refreshed, err = vehicleRepo.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceStatusOverdue, refreshed.Status)
}
