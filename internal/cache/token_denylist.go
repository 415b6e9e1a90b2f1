package cache

import (
	"context"
	"time"
)

// TokenDenylist remembers revoked JWT ids until the token would have expired anyway.
type TokenDenylist struct {
	redis *RedisClient
}

// NewTokenDenylist creates a new TokenDenylist.
func NewTokenDenylist(redis *RedisClient) *TokenDenylist {
	return &TokenDenylist{redis: redis}
}

func revokedKey(jti string) string {
	return "auth:revoked:" + jti
}

// Revoke marks jti as revoked until expiresAt.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.redis.Set(ctx, revokedKey(jti), "1", ttl)
}

// IsRevoked reports whether jti was revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return d.redis.Exists(ctx, revokedKey(jti))
}
