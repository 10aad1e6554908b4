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
)

type userRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewUserRepository(db *mongo.Database, cache CacheService) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
		cache:      cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if user.TestingSchedule == "" {
		user.TestingSchedule = models.TestingScheduleSemiAnnual
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	// Try cache first
	if user := r.getUserFromCache(ctx, id.Hex()); user != nil {
		return user, nil
	}

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.cacheUser(ctx, &user)

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", email, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateUserCache(ctx, id.Hex())

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateUserCache(ctx, id.Hex())

	return nil
}

// Cache helpers
func (r *userRepository) cacheUser(ctx context.Context, user *models.User) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, userCacheKey(user.ID.Hex()), user, 15*time.Minute)
}

func (r *userRepository) getUserFromCache(ctx context.Context, id string) *models.User {
	if r.cache == nil {
		return nil
	}
	var user models.User
	if err := r.cache.Get(ctx, userCacheKey(id), &user); err != nil {
		return nil
	}
	return &user
}

func (r *userRepository) invalidateUserCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, userCacheKey(id))
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user_%s", id)
}
