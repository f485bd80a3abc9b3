package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBlacklist(t *testing.T) (*TokenBlacklist, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTokenBlacklist(client, 24*time.Hour, zap.NewNop()), mr
}

func TestTokenBlacklist_AddAndContains(t *testing.T) {
	bl, _ := newTestBlacklist(t)
	ctx := context.Background()

	revoked, err := bl.Contains(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Add(ctx, "some-token"))

	revoked, err = bl.Contains(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other tokens stay unaffected.
	revoked, err = bl.Contains(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_EntryExpires(t *testing.T) {
	bl, mr := newTestBlacklist(t)
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "some-token"))

	// Entries lapse after the configured TTL regardless of the token's
	// own expiry.
	mr.FastForward(24*time.Hour + time.Minute)

	revoked, err := bl.Contains(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}
