package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPRepo keeps one live OTP per email in Redis. The key carries the TTL,
// so expiry needs no sweeper, and a regenerated code simply overwrites the
// previous one: there is never more than one valid code per address. The
// client may be nil when Redis was unreachable at startup; every method
// then reports ErrOTPStoreDown instead of touching the client.
type OTPRepo struct{ RDB *redis.Client }

func NewOTPRepo(rdb *redis.Client) *OTPRepo { return &OTPRepo{RDB: rdb} }

func otpKey(email string) string { return "otp:" + email }

// Put stores (or replaces) the code for an email with the given lifetime.
func (r *OTPRepo) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	if r.RDB == nil {
		return ErrOTPStoreDown
	}
	return r.RDB.Set(ctx, otpKey(email), code, ttl).Err()
}

// Get returns the live code for an email, or ErrNotFound when none exists
// or it has expired.
func (r *OTPRepo) Get(ctx context.Context, email string) (string, error) {
	if r.RDB == nil {
		return "", ErrOTPStoreDown
	}
	code, err := r.RDB.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return code, err
}

// Consume deletes the code after a successful verification so it cannot be
// replayed.
func (r *OTPRepo) Consume(ctx context.Context, email string) error {
	if r.RDB == nil {
		return ErrOTPStoreDown
	}
	return r.RDB.Del(ctx, otpKey(email)).Err()
}
