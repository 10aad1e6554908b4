package interfaces

import (
	"context"
	"time"

	"smoketrack/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderFilter narrows reminder list queries.
type ReminderFilter struct {
	Sent     *bool
	Upcoming bool // unsent reminders dated at or after now
	Now      time.Time
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) error

	// GetByVehicleID returns the vehicle's reminders ordered by reminder
	// date, earliest first.
	GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Reminder, error)
	GetByVehicleIDs(ctx context.Context, vehicleIDs []primitive.ObjectID, filter *ReminderFilter) ([]*models.Reminder, error)

	// ExistsInWindow reports whether the vehicle already has a reminder
	// dated within the window around the candidate date.
	ExistsInWindow(ctx context.Context, vehicleID primitive.ObjectID, candidate time.Time, window time.Duration) (bool, error)

	// GetDueUnsent returns unsent reminders dated at or before now.
	GetDueUnsent(ctx context.Context, now time.Time) ([]*models.Reminder, error)

	MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time) error
}
