package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/utils"
)

// Cache is a small read-through cache in front of the Laravel MySQL database.
// The entitlement service uses it to keep subscription reads off the remote
// database on hot streaming paths. All errors degrade to a cache miss.
type Cache interface {
	GetBool(ctx context.Context, key string) (val bool, ok bool)
	SetBool(ctx context.Context, key string, val bool, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type cache struct {
	log *logger.Logger
	rdb *redis.Client
}

func NewCache(logg *logger.Logger) (Cache, error) {
	serviceLog := logg.With("service", "RedisCache")

	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", logg)
	password := utils.GetEnv("REDIS_PASSWORD", "", logg)
	dbNum := utils.GetEnvAsInt("REDIS_DB", 0, logg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return &cache{log: serviceLog, rdb: rdb}, nil
}

func (c *cache) GetBool(ctx context.Context, key string) (bool, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug("redis get failed, treating as miss", "key", key, "error", err)
		}
		return false, false
	}
	return val == "1", true
}

func (c *cache) SetBool(ctx context.Context, key string, val bool, ttl time.Duration) {
	s := "0"
	if val {
		s = "1"
	}
	if err := c.rdb.Set(ctx, key, s, ttl).Err(); err != nil {
		c.log.Debug("redis set failed", "key", key, "error", err)
	}
}

func (c *cache) Delete(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Debug("redis del failed", "key", key, "error", err)
	}
}
