// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"relocare/config"
	"relocare/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AuthCacheClient is the dedicated client for role caching. It stays nil
// when Redis is not configured or unreachable.
var AuthCacheClient *redis.Client

// InitAuthCache connects the role cache. Redis is optional: on failure the
// cache is disabled and lookups fall through to the user store.
func InitAuthCache() *redis.Client {
	if config.AppConfig.RedisAddr == "" {
		GetLogger().Info("Redis not configured, role cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Failed to connect to Redis (Auth), role cache disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	AuthCacheClient = client
	return client
}

// GetAuthCacheClient returns the role cache client, possibly nil.
func GetAuthCacheClient() *redis.Client {
	return AuthCacheClient
}

// RoleCache remembers a user's role between requests.
type RoleCache interface {
	GetRole(ctx context.Context, userID string) (models.Role, bool)
	SetRole(ctx context.Context, userID string, role models.Role)
	Invalidate(ctx context.Context, userID string)
}

// RedisRoleCache is a RoleCache on Redis. A nil client turns every call into a miss.
type RedisRoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRoleCache(client *redis.Client) *RedisRoleCache {
	return &RedisRoleCache{client: client, ttl: AuthCacheTTL}
}

func (r *RedisRoleCache) GetRole(ctx context.Context, userID string) (models.Role, bool) {
	if r == nil || r.client == nil {
		return "", false
	}
	val, err := r.client.Get(ctx, AuthCachePrefix+userID).Result()
	if err != nil {
		if err != redis.Nil {
			GetLogger().Warn("role cache read failed", zap.String("userID", userID), zap.Error(err))
		}
		return "", false
	}
	role := models.Role(val)
	if !role.IsValid() {
		return "", false
	}
	return role, true
}

func (r *RedisRoleCache) SetRole(ctx context.Context, userID string, role models.Role) {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Set(ctx, AuthCachePrefix+userID, string(role), r.ttl).Err(); err != nil {
		GetLogger().Warn("role cache write failed", zap.String("userID", userID), zap.Error(err))
	}
}

func (r *RedisRoleCache) Invalidate(ctx context.Context, userID string) {
	if r == nil || r.client == nil {
		return
	}
	_ = r.client.Del(ctx, AuthCachePrefix+userID).Err()
}
