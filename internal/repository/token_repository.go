package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepo keeps the ids of logged-out session tokens until they would
// have expired anyway.  A nil Redis client turns every method into a
// no-op; logout then relies on expiring the cookie.
type TokenRepo struct {
	rdb    *redis.Client
	prefix string
}

func NewTokenRepo(rdb *redis.Client) *TokenRepo {
	return &TokenRepo{rdb: rdb, prefix: "session:revoked:"}
}

// Revoke records jti as revoked until exp.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, exp time.Time) error {
	if r == nil || r.rdb == nil || jti == "" {
		return nil
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+jti, 1, ttl).Err()
}

// IsRevoked reports whether jti was revoked.  Redis errors are returned so
// the caller can decide whether to fail open.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r == nil || r.rdb == nil || jti == "" {
		return false, nil
	}
	err := r.rdb.Get(ctx, r.prefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
