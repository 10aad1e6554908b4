package mongodb

import (
	"context"
	"fmt"
	"time"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type testRecordRepository struct {
	collection *mongo.Collection
}

func NewTestRecordRepository(db *mongo.Database) interfaces.TestRecordRepository {
	return &testRecordRepository{
		collection: db.Collection("test_records"),
	}
}

func (r *testRecordRepository) Create(ctx context.Context, record *models.TestRecord) error {
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create test record: %w", err)
	}

	return nil
}

func (r *testRecordRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TestRecord, error) {
	var record models.TestRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("test record %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get test record: %w", err)
	}

	return &record, nil
}

func (r *testRecordRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete test record: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("test record %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	return nil
}

func (r *testRecordRepository) DeleteByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"vehicle_id": vehicleID})
	if err != nil {
		return fmt.Errorf("failed to delete test records for vehicle: %w", err)
	}

	return nil
}

func (r *testRecordRepository) GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.TestRecord, error) {
	filter := bson.M{"vehicle_id": vehicleID}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "test_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find test records by vehicle ID: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*models.TestRecord
	for cursor.Next(ctx) {
		var record models.TestRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to decode test record: %w", err)
		}
		records = append(records, &record)
	}

	return records, nil
}

func (r *testRecordRepository) GetLatestByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) (*models.TestRecord, error) {
	return r.findLatest(ctx, bson.M{"vehicle_id": vehicleID})
}

func (r *testRecordRepository) GetLatestPassByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) (*models.TestRecord, error) {
	return r.findLatest(ctx, bson.M{
		"vehicle_id":  vehicleID,
		"test_result": models.TestResultPass,
	})
}

func (r *testRecordRepository) findLatest(ctx context.Context, filter bson.M) (*models.TestRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "test_date", Value: -1}})

	var record models.TestRecord
	err := r.collection.FindOne(ctx, filter, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest test record: %w", err)
	}

	return &record, nil
}
