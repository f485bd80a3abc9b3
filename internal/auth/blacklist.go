package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const blacklistKeyPrefix = "blacklist:"

// TokenBlacklist stores revoked tokens in Redis until their entry TTL
// elapses.
//
// The entry TTL and the token's own expiry are independent facts: a token
// revoked more than the TTL before its natural expiry becomes replayable
// once the entry lapses. Known limitation; deployments should keep
// JWT_BLACKLIST_TTL at or above JWT_TOKEN_TTL.
type TokenBlacklist struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewTokenBlacklist creates a blacklist with the given entry TTL.
func NewTokenBlacklist(client *redis.Client, ttl time.Duration, log *zap.Logger) *TokenBlacklist {
	return &TokenBlacklist{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Add revokes a token for the configured TTL.
func (b *TokenBlacklist) Add(ctx context.Context, token string) error {
	err := b.client.Set(ctx, blacklistKeyPrefix+token, time.Now().UTC().Format(time.RFC3339), b.ttl).Err()
	if err != nil {
		b.log.Error("failed to blacklist token", zap.Error(err))
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	b.log.Info("token blacklisted", zap.Duration("ttl", b.ttl))
	return nil
}

// Contains reports whether a token is currently revoked.
func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}
