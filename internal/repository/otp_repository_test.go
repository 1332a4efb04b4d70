package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRepoWithoutRedisReturnsError(t *testing.T) {
	// Startup tolerates an unreachable Redis by passing a nil client
	// through; the OTP store must then fail like any other upstream, not
	// crash the handler.
	r := NewOTPRepo(nil)
	ctx := context.Background()

	err := r.Put(ctx, "a@b.example", "123456", time.Minute)
	assert.ErrorIs(t, err, ErrOTPStoreDown)

	code, err := r.Get(ctx, "a@b.example")
	require.ErrorIs(t, err, ErrOTPStoreDown)
	assert.Empty(t, code)

	assert.ErrorIs(t, r.Consume(ctx, "a@b.example"), ErrOTPStoreDown)
}
