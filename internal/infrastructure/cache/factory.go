// Package cache builds the Redis-backed stores the API shares across
// instances: web sessions, revoked bearer tokens and processed webhook ids.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores groups the shared state stores
type Stores struct {
	Sessions auth.SessionStore
	Revoker  auth.TokenRevoker
	Webhooks shared.IdempotencyStore

	client *redis.Client
}

// Close releases the Redis connection when one is open
func (s *Stores) Close() error {
	if s.client == nil {
		return s.Webhooks.Close()
	}
	return s.client.Close()
}

// Redis returns the underlying client, nil when running on in-memory stores
func (s *Stores) Redis() *redis.Client {
	return s.client
}

// NewRedisClient connects and pings Redis
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewStores connects to Redis. Outside production an unreachable Redis falls
// back to in-memory stores, which only work for a single instance.
func NewStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	client, err := NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		if cfg.App.IsProduction() {
			return nil, err
		}
		logger.Warn("Redis unavailable, using in-memory session and webhook stores", zap.Error(err))
		return &Stores{
			Sessions: auth.NewInMemorySessionStore(cfg.Session.TTL),
			Revoker:  auth.NewInMemoryTokenRevoker(),
			Webhooks: NewInMemoryIdempotencyStore(),
		}, nil
	}

	logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	return &Stores{
		Sessions: auth.NewRedisSessionStore(client, cfg.Session.KeyPrefix, cfg.Session.TTL),
		Revoker:  auth.NewRedisTokenRevoker(client),
		Webhooks: NewRedisIdempotencyStore(client, "sms:webhook:"),
		client:   client,
	}, nil
}
