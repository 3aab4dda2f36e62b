package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "denylist:jti:"

// TokenDenylist stores revoked token ids as keys that expire together with
// the token itself, so the set never outgrows the live tokens.
type TokenDenylist struct {
	client *redis.Client
	now    func() time.Time
}

// NewTokenDenylist creates a TokenDenylist wrapping the given Redis client.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client, now: time.Now}
}

// Revoke marks tokenID as revoked until the given instant. Tokens that have
// already expired need no entry.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := revocationTTL(until, d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("denylist revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

func revocationTTL(until, now time.Time) time.Duration {
	return until.Sub(now).Round(time.Second) + time.Second
}

func key(tokenID string) string {
	return denylistPrefix + tokenID
}
