package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token ids until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisDenylist stores revoked token ids as expiring Redis keys.
type RedisDenylist struct {
	client *redis.Client
	prefix string
}

// NewRedisDenylist creates a denylist backed by client.
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client, prefix: "auth:revoked"}
}

func (d *RedisDenylist) key(jti string) string {
	return d.prefix + ":" + jti
}

// Revoke marks jti as revoked for ttl.
func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.key(jti), 1, ttl).Err()
}

// IsRevoked reports whether jti was revoked.
func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := d.client.Get(ctx, d.key(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
