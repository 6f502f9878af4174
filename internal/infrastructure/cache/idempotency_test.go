package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := NewInMemoryIdempotencyStore()
	store.now = func() time.Time { return now }

	first, err := store.MarkProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, again, "a repeated delivery is reported as seen")

	seen, _ := store.IsProcessed(ctx, "evt_1")
	assert.True(t, seen)

	now = now.Add(2 * time.Hour)
	seen, _ = store.IsProcessed(ctx, "evt_1")
	assert.False(t, seen, "entries expire after their ttl")

	fresh, err := store.MarkProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Len(t, store.expires, 1)
}

func TestNewStores_FallsBackOutsideProduction(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "development"
	cfg.Redis.Host = "127.0.0.1"
	cfg.Redis.Port = 1 // nothing listens here
	cfg.Session.TTL = time.Hour

	stores, err := NewStores(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer stores.Close()

	assert.Nil(t, stores.Redis())
	assert.NotNil(t, stores.Sessions)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Webhooks)

	cfg.App.Env = "production"
	_, err = NewStores(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
