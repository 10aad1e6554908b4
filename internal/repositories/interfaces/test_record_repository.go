package interfaces

import (
	"context"

	"smoketrack/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TestRecordRepository interface {
	Create(ctx context.Context, record *models.TestRecord) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.TestRecord, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) error

	// GetByVehicleID returns the vehicle's records ordered by test date,
	// most recent first.
	GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.TestRecord, error)

	// GetLatestByVehicleID returns the most recent record by test date, or
	// ErrNotFound when the vehicle has no records.
	GetLatestByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) (*models.TestRecord, error)

	// GetLatestPassByVehicleID returns the most recent passing record by test
	// date, or ErrNotFound when the vehicle has no passing records.
	GetLatestPassByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) (*models.TestRecord, error)
}
