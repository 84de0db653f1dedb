package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Redis
// ──────────────────────────────────────────────────────────────────────────────

func TestRedis_PrimeraPeticionFijaExpiracion(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRedisWithClient(db, nil)
	key := "coins:ratelimit:user-1"

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectTTL(key).SetVal(time.Minute)

	d := rl.Allow(context.Background(), "user-1", 2, time.Minute)

	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, 1, d.Remaining)
	assert.False(t, d.ResetAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_SuperaLimite(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRedisWithClient(db, nil)
	key := "coins:ratelimit:user-1"

	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectTTL(key).SetVal(20 * time.Second)

	d := rl.Allow(context.Background(), "user-1", 2, time.Minute)

	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_FallaAbiertoSiRedisNoResponde(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRedisWithClient(db, nil)

	mock.ExpectIncr("coins:ratelimit:user-1").SetErr(errors.New("connection refused"))

	d := rl.Allow(context.Background(), "user-1", 2, time.Minute)

	assert.True(t, d.Allowed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_LimiteCeroDesactiva(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRedisWithClient(db, nil)

	d := rl.Allow(context.Background(), "user-1", 0, time.Minute)

	assert.True(t, d.Allowed)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// Local
// ──────────────────────────────────────────────────────────────────────────────

func TestLocal_AgotaElBucket(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newLocal(func() time.Time { return now })
	t.Cleanup(func() { _ = rl.Close() })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ctx, "ip-1", 3, time.Minute).Allowed, "petición %d", i+1)
	}
	d := rl.Allow(ctx, "ip-1", 3, time.Minute)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.False(t, d.ResetAt.IsZero())

	assert.True(t, rl.Allow(ctx, "ip-2", 3, time.Minute).Allowed, "otra clave tiene su propio bucket")
}

func TestLocal_LimpiaClavesInactivas(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newLocal(func() time.Time { return now })
	t.Cleanup(func() { _ = rl.Close() })
	rl.Allow(context.Background(), "ip-1", 3, time.Minute)

	rl.cleanup(now.Add(11 * time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.buckets)
}
