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

type reminderRepository struct {
	collection *mongo.Collection
}

func NewReminderRepository(db *mongo.Database) interfaces.ReminderRepository {
	return &reminderRepository{
		collection: db.Collection("reminders"),
	}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	reminder.ID = primitive.NewObjectID()
	reminder.CreatedAt = time.Now()

	if reminder.ReminderType == "" {
		reminder.ReminderType = models.ReminderTypeEmail
	}

	_, err := r.collection.InsertOne(ctx, reminder)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	return nil
}

func (r *reminderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	var reminder models.Reminder
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reminder)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("reminder %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return &reminder, nil
}

func (r *reminderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("reminder %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	return nil
}

func (r *reminderRepository) DeleteByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"vehicle_id": vehicleID})
	if err != nil {
		return fmt.Errorf("failed to delete reminders for vehicle: %w", err)
	}

	return nil
}

func (r *reminderRepository) GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Reminder, error) {
	filter := bson.M{"vehicle_id": vehicleID}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "reminder_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find reminders by vehicle ID: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeReminders(ctx, cursor)
}

func (r *reminderRepository) GetByVehicleIDs(ctx context.Context, vehicleIDs []primitive.ObjectID, filter *interfaces.ReminderFilter) ([]*models.Reminder, error) {
	query := bson.M{"vehicle_id": bson.M{"$in": vehicleIDs}}

	if filter != nil {
		if filter.Sent != nil {
			query["sent"] = *filter.Sent
		}
		if filter.Upcoming {
			query["sent"] = false
			query["reminder_date"] = bson.M{"$gte": filter.Now}
		}
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "reminder_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find reminders: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeReminders(ctx, cursor)
}

func (r *reminderRepository) ExistsInWindow(ctx context.Context, vehicleID primitive.ObjectID, candidate time.Time, window time.Duration) (bool, error) {
	filter := bson.M{
		"vehicle_id": vehicleID,
		"reminder_date": bson.M{
			"$gt": candidate.Add(-window),
			"$lt": candidate.Add(window),
		},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check for existing reminder: %w", err)
	}

	return count > 0, nil
}

func (r *reminderRepository) GetDueUnsent(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	filter := bson.M{
		"sent":          false,
		"reminder_date": bson.M{"$lte": now},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "reminder_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeReminders(ctx, cursor)
}

func (r *reminderRepository) MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"sent": true, "sent_at": sentAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("reminder %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	return nil
}

func decodeReminders(ctx context.Context, cursor *mongo.Cursor) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for cursor.Next(ctx) {
		var reminder models.Reminder
		if err := cursor.Decode(&reminder); err != nil {
			return nil, fmt.Errorf("failed to decode reminder: %w", err)
		}
		reminders = append(reminders, &reminder)
	}

	return reminders, nil
}
