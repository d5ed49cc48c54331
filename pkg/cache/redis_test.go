package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheGetSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rc := NewRedisCacheFromClient(db, "eigenflow")
	ctx := context.Background()

	mock.ExpectSet("eigenflow:source:local:web_top10.csv", []byte("Rank\n1"), 5*time.Minute).SetVal("OK")
	require.NoError(t, rc.Set(ctx, "source:local:web_top10.csv", []byte("Rank\n1"), 5*time.Minute))

	mock.ExpectGet("eigenflow:source:local:web_top10.csv").SetVal("Rank\n1")
	b, err := rc.Get(ctx, "source:local:web_top10.csv")
	require.NoError(t, err)
	assert.Equal(t, "Rank\n1", string(b))

	mock.ExpectGet("eigenflow:missing").RedisNil()
	_, err = rc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	mock.ExpectGet("eigenflow:broken").SetErr(errors.New("connection reset"))
	_, err = rc.Get(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayeredCachePromotesRedisHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	lc := NewLayeredCache(NewRedisCacheFromClient(db, "eigenflow"), WithLayeredMemoryTTL(time.Minute))
	defer lc.memCache.Close()
	ctx := context.Background()

	mock.ExpectGet("eigenflow:history").SetVal("date,risk_on")
	mock.ExpectPTTL("eigenflow:history").SetVal(10 * time.Minute)
	b, err := lc.Get(ctx, "history")
	require.NoError(t, err)
	assert.Equal(t, "date,risk_on", string(b))

	// second read is served from memory: no further redis expectation
	b, err = lc.Get(ctx, "history")
	require.NoError(t, err)
	assert.Equal(t, "date,risk_on", string(b))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayeredCacheKeepsRedisExpiry(t *testing.T) {
	now := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	db, mock := redismock.NewClientMock()
	lc := NewLayeredCache(NewRedisCacheFromClient(db, "eigenflow"),
		WithLayeredMemoryTTL(5*time.Minute),
		WithLayeredClock(func() time.Time { return now }),
	)
	defer lc.memCache.Close()
	ctx := context.Background()

	// the Redis entry has 20s left: memory must not serve it past that
	mock.ExpectGet("eigenflow:history").SetVal("date,risk_on")
	mock.ExpectPTTL("eigenflow:history").SetVal(20 * time.Second)
	_, err := lc.Get(ctx, "history")
	require.NoError(t, err)

	now = now.Add(10 * time.Second)
	b, err := lc.Get(ctx, "history")
	require.NoError(t, err)
	assert.Equal(t, "date,risk_on", string(b))

	now = now.Add(15 * time.Second)
	mock.ExpectGet("eigenflow:history").RedisNil()
	_, err = lc.Get(ctx, "history")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// no TTL on the Redis key: not promoted
	mock.ExpectGet("eigenflow:pointer").SetVal("2026-02-09_risk_off")
	mock.ExpectPTTL("eigenflow:pointer").SetVal(-1)
	_, err = lc.Get(ctx, "pointer")
	require.NoError(t, err)
	assert.Equal(t, 0, lc.memCache.Len())

	assert.NoError(t, mock.ExpectationsWereMet())
}
