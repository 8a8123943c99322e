package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const identityKeyPrefix = "identity:email:"

// RedisOptions holds the connection settings for NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with a PING.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// commands is the part of the Redis client the identity cache uses.
type commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdentityCache caches email to user id resolutions in Redis.
// Errors are logged rather than returned; a failed lookup is treated as a miss.
type IdentityCache struct {
	client commands
	ttl    time.Duration
	logger *zap.Logger
}

// NewIdentityCache creates an IdentityCache. A ttl of 0 keeps entries until deleted.
func NewIdentityCache(client commands, ttl time.Duration, logger *zap.Logger) *IdentityCache {
	return &IdentityCache{client: client, ttl: ttl, logger: logger}
}

func identityKey(email string) string {
	return identityKeyPrefix + email
}

// Get returns the cached user id for email.
func (c *IdentityCache) Get(ctx context.Context, email string) (string, bool) {
	id, err := c.client.Get(ctx, identityKey(email)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Identity cache read failed", zap.String("email", email), zap.Error(err))
		}
		return "", false
	}
	return id, id != ""
}

// Set stores the user id for email.
func (c *IdentityCache) Set(ctx context.Context, email, userID string) {
	if err := c.client.Set(ctx, identityKey(email), userID, c.ttl).Err(); err != nil {
		c.logger.Warn("Identity cache write failed", zap.String("email", email), zap.Error(err))
	}
}

// Delete removes the entry for email.
func (c *IdentityCache) Delete(ctx context.Context, email string) {
	if err := c.client.Del(ctx, identityKey(email)).Err(); err != nil {
		c.logger.Warn("Identity cache delete failed", zap.String("email", email), zap.Error(err))
	}
}
