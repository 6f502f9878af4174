package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(time.Hour)
	userID := uuid.New()

	sess, err := store.Create(ctx, userID, "ua", "10.0.0.1")
	require.NoError(t, err)
	assert.Len(t, sess.ID, 43)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(-time.Second)

	sess, err := store.Create(ctx, uuid.New(), "", "")
	require.NoError(t, err)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInMemoryTokenRevoker(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryTokenRevoker()

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, r.Revoke(ctx, "jti-2", 0))

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "already expired tokens need no entry")
}
