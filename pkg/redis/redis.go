package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/almira/almira-backend/config"
	"github.com/almira/almira-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken revokes a token until its natural expiry. Used to
// force a clean sign-out after authorization failures.
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	err := client.Set(ctx, key, "revoked", expiry).Err()
	if err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}

	logger.Debug("Token blacklisted", map[string]interface{}{
		"expiry": expiry.String(),
	})
	return nil
}

// IsTokenBlacklisted checks if a token has been revoked
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	return val == "revoked", nil
}

// permissionCacheTTL keeps cached grants short-lived; role edits also
// invalidate explicitly.
const permissionCacheTTL = time.Minute

func permissionKey(email string) string {
	return fmt.Sprintf("permissions:%s", email)
}

// CachePermissions stores a resolved grant so hot admin paths skip the
// role table.
func CachePermissions(ctx context.Context, email string, permissions []string) {
	data, err := json.Marshal(permissions)
	if err != nil {
		return
	}
	if err := client.Set(ctx, permissionKey(email), data, permissionCacheTTL).Err(); err != nil {
		logger.Warn("Failed to cache permissions", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
	}
}

// GetCachedPermissions returns the cached grant for the email. Misses
// and errors both report false so callers fall through to the store.
func GetCachedPermissions(ctx context.Context, email string) ([]string, bool) {
	val, err := client.Get(ctx, permissionKey(email)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("Failed to read cached permissions", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return nil, false
	}

	var permissions []string
	if err := json.Unmarshal([]byte(val), &permissions); err != nil {
		return nil, false
	}
	return permissions, true
}

// InvalidatePermissions drops the cached grant after a role edit.
func InvalidatePermissions(ctx context.Context, email string) {
	if err := client.Del(ctx, permissionKey(email)).Err(); err != nil {
		logger.Warn("Failed to invalidate cached permissions", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
	}
}

// PermissionCache adapts the package-level helpers to the service
// layer's grant cache interface.
type PermissionCache struct{}

func (PermissionCache) Get(ctx context.Context, email string) ([]string, bool) {
	return GetCachedPermissions(ctx, email)
}

func (PermissionCache) Set(ctx context.Context, email string, permissions []string) {
	CachePermissions(ctx, email, permissions)
}

func (PermissionCache) Invalidate(ctx context.Context, email string) {
	InvalidatePermissions(ctx, email)
}
