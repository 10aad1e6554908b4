package mongodb

import (
	"context"
	"time"
)

// CacheService is the read-through cache used by repositories. Satisfied by
// pkg/cache.RedisCache; repositories tolerate a nil cache.
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}
