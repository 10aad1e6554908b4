package interfaces

import (
	"context"
	"time"

	"smoketrack/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleFilter narrows vehicle list queries.
type VehicleFilter struct {
	Status    models.ComplianceStatus
	Search    string // matches unit number, VIN, license plate or fleet tag
	SortBy    string
	SortOrder string
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	GetByUserID(ctx context.Context, userID primitive.ObjectID, filter *VehicleFilter) ([]*models.Vehicle, error)
	GetAll(ctx context.Context) ([]*models.Vehicle, error)

	// GetWithDueDateFrom returns vehicles whose next due date is at or after
	// the given time.
	GetWithDueDateFrom(ctx context.Context, from time.Time) ([]*models.Vehicle, error)
}
