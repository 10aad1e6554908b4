package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vehicleRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewVehicleRepository(db *mongo.Database, cache CacheService) interfaces.VehicleRepository {
	return &vehicleRepository{
		collection: db.Collection("vehicles"),
		cache:      cache,
	}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	// Normalize identifiers to uppercase
	vehicle.VIN = strings.ToUpper(vehicle.VIN)
	vehicle.LicensePlate = strings.ToUpper(vehicle.LicensePlate)

	if vehicle.Status == "" {
		vehicle.Status = models.ComplianceStatusCompliant
	}

	_, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	// Try cache first
	if vehicle := r.getVehicleFromCache(ctx, id.Hex()); vehicle != nil {
		return vehicle, nil
	}

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("vehicle %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	r.cacheVehicle(ctx, &vehicle)

	return &vehicle, nil
}

func (r *vehicleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	// Normalize identifiers if being updated
	if vin, exists := updates["vin"]; exists {
		if vinStr, ok := vin.(string); ok {
			updates["vin"] = strings.ToUpper(vinStr)
		}
	}
	if licensePlate, exists := updates["license_plate"]; exists {
		if plateStr, ok := licensePlate.(string); ok {
			updates["license_plate"] = strings.ToUpper(plateStr)
		}
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("vehicle %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateVehicleCache(ctx, id.Hex())

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("vehicle %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateVehicleCache(ctx, id.Hex())

	return nil
}

func (r *vehicleRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, filter *interfaces.VehicleFilter) ([]*models.Vehicle, error) {
	query := bson.M{"user_id": userID}

	if filter != nil {
		if filter.Status != "" {
			query["status"] = filter.Status
		}
		if filter.Search != "" {
			pattern := primitive.Regex{Pattern: filter.Search, Options: "i"}
			query["$or"] = []bson.M{
				{"unit_number": pattern},
				{"vin": pattern},
				{"license_plate": pattern},
				{"fleet_tag": pattern},
			}
		}
	}

	opts := options.Find().SetSort(sortForFilter(filter))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles by user ID: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeVehicles(ctx, cursor)
}

func (r *vehicleRepository) GetAll(ctx context.Context) ([]*models.Vehicle, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeVehicles(ctx, cursor)
}

func (r *vehicleRepository) GetWithDueDateFrom(ctx context.Context, from time.Time) ([]*models.Vehicle, error) {
	filter := bson.M{"next_due_date": bson.M{"$gte": from}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "next_due_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles with upcoming due dates: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeVehicles(ctx, cursor)
}

func decodeVehicles(ctx context.Context, cursor *mongo.Cursor) ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, fmt.Errorf("failed to decode vehicle: %w", err)
		}
		vehicles = append(vehicles, &vehicle)
	}

	return vehicles, nil
}

func sortForFilter(filter *interfaces.VehicleFilter) bson.D {
	sortBy := "unit_number"
	order := 1

	if filter != nil {
		switch filter.SortBy {
		case "next_due_date", "status", "engine_year":
			sortBy = filter.SortBy
		}
		if filter.SortOrder == "desc" {
			order = -1
		}
	}

	return bson.D{{Key: sortBy, Value: order}}
}

// Cache helpers
func (r *vehicleRepository) cacheVehicle(ctx context.Context, vehicle *models.Vehicle) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, vehicleCacheKey(vehicle.ID.Hex()), vehicle, 15*time.Minute)
}

func (r *vehicleRepository) getVehicleFromCache(ctx context.Context, id string) *models.Vehicle {
	if r.cache == nil {
		return nil
	}
	var vehicle models.Vehicle
	if err := r.cache.Get(ctx, vehicleCacheKey(id), &vehicle); err != nil {
		return nil
	}
	return &vehicle
}

func (r *vehicleRepository) invalidateVehicleCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, vehicleCacheKey(id))
}

func vehicleCacheKey(id string) string {
	return fmt.Sprintf("vehicle_%s", id)
}
