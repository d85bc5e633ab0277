// Package redis implements proofcache.Cache over a shared Redis
// instance, for proof façade deployments running more than one replica
// behind a load balancer.
package redis

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clearmatics/lithium/pkg/proofcache"
)

const keyPrefix = "lithium:proof:"

// Cache is proofcache.Cache backed by a shared Redis server.
type Cache struct {
	client *redislib.Client
	logger *zap.Logger
	ttl    time.Duration
}

// Config configures the Redis connection.
type Config struct {
	Address  string
	Password string
	DB       int
	// TTL is how long a cached proof survives; 0 disables expiry.
	TTL time.Duration
}

// New connects to a Redis server per cfg.
func New(cfg Config, logger *zap.Logger) *Cache {
	client := redislib.NewClient(&redislib.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{client: client, logger: logger, ttl: cfg.TTL}
}

func redisKey(key proofcache.Key) string {
	return keyPrefix + hex.EncodeToString(key.Bytes())
}

// Get returns the cached proof blob for key, if present.
func (c *Cache) Get(ctx context.Context, key proofcache.Key) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redislib.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	return val, true, nil
}

// Set stores blob under key with the cache's configured TTL.
func (c *Cache) Set(ctx context.Context, key proofcache.Key, blob []byte) error {
	if err := c.client.Set(ctx, redisKey(key), blob, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

var _ proofcache.Cache = (*Cache)(nil)
