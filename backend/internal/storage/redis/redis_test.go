package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMiniredis creates a new miniredis server and returns a Redis client connected to it
func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := Connect(context.Background(), config.Redis{Addr: addr})
	require.NoError(t, err)
	client.Close()

	mr.Close()
	_, err = Connect(context.Background(), config.Redis{Addr: addr})
	assert.Error(t, err)
}

func TestLedger(t *testing.T) {
	ctx := context.Background()
	const ttl = 5 * time.Minute
	email := "a@x.com"

	t.Run("replace stores a hash with ttl", func(t *testing.T) {
		mr, client := setupMiniredis(t)
		ledger := NewLedger(client, ttl)
		now := time.Now()

		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "111111", CreatedAt: now}))
		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "222222", CreatedAt: now}))

		assert.Equal(t, "222222", mr.HGet("otp:"+email, "code"))
		assert.Greater(t, mr.TTL("otp:"+email), time.Duration(0))

		_, err := ledger.ConsumeCode(ctx, email, "111111", now.Add(-ttl))
		assert.True(t, errors.IsNotFound(err), "replaced code must not match")
	})

	t.Run("consume is single use", func(t *testing.T) {
		mr, client := setupMiniredis(t)
		ledger := NewLedger(client, ttl)
		now := time.Now()
		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "333333", CreatedAt: now}))

		otp, err := ledger.ConsumeCode(ctx, email, "333333", now.Add(-ttl))
		require.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), otp.CreatedAt.UnixMilli())
		assert.False(t, mr.Exists("otp:"+email))

		_, err = ledger.ConsumeCode(ctx, email, "333333", now.Add(-ttl))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("wrong code leaves the stored one", func(t *testing.T) {
		mr, client := setupMiniredis(t)
		ledger := NewLedger(client, ttl)
		now := time.Now()
		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "444444", CreatedAt: now}))

		_, err := ledger.ConsumeCode(ctx, email, "000000", now.Add(-ttl))
		assert.True(t, errors.IsNotFound(err))
		assert.True(t, mr.Exists("otp:"+email))
	})

	t.Run("too old for the window", func(t *testing.T) {
		_, client := setupMiniredis(t)
		ledger := NewLedger(client, ttl)
		now := time.Now()
		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "555555", CreatedAt: now.Add(-4 * time.Minute)}))

		_, err := ledger.ConsumeCode(ctx, email, "555555", now.Add(-3*time.Minute))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("key expires with the code", func(t *testing.T) {
		mr, client := setupMiniredis(t)
		ledger := NewLedger(client, ttl)
		now := time.Now()
		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "666666", CreatedAt: now}))

		mr.FastForward(ttl + time.Second)
		_, err := ledger.ConsumeCode(ctx, email, "666666", now.Add(-ttl))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("restore", func(t *testing.T) {
		mr, client := setupMiniredis(t)
		ledger := NewLedger(client, ttl)
		now := time.Now()
		otp := domain.OneTimeCode{Email: email, Code: "777777", CreatedAt: now}
		require.NoError(t, ledger.ReplaceCode(ctx, otp))
		consumed, err := ledger.ConsumeCode(ctx, email, otp.Code, now.Add(-ttl))
		require.NoError(t, err)

		require.NoError(t, ledger.RestoreCode(ctx, consumed))
		assert.Equal(t, "777777", mr.HGet("otp:"+email, "code"))
		assert.Greater(t, mr.TTL("otp:"+email), time.Duration(0))

		// a newer code wins over a restore
		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "888888", CreatedAt: now}))
		require.NoError(t, ledger.RestoreCode(ctx, consumed))
		assert.Equal(t, "888888", mr.HGet("otp:"+email, "code"))
	})

	t.Run("concurrent consume succeeds once", func(t *testing.T) {
		_, client := setupMiniredis(t)
		ledger := NewLedger(client, ttl)
		now := time.Now()
		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "999999", CreatedAt: now}))

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := ledger.ConsumeCode(ctx, email, "999999", now.Add(-ttl)); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, successes)
	})

	t.Run("delete", func(t *testing.T) {
		mr, client := setupMiniredis(t)
		ledger := NewLedger(client, ttl)
		require.NoError(t, ledger.ReplaceCode(ctx, domain.OneTimeCode{Email: email, Code: "123456", CreatedAt: time.Now()}))

		require.NoError(t, ledger.DeleteCodes(ctx, email))
		assert.False(t, mr.Exists("otp:"+email))
	})
}

func TestAttemptLimiter(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniredis(t)
	limiter := NewAttemptLimiter(client, 3, 10*time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}
	ok, err := limiter.Allow(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok, "fourth attempt is over the limit")

	ok, err = limiter.Allow(ctx, "b@x.com")
	require.NoError(t, err)
	assert.True(t, ok, "limits are per email")

	assert.Greater(t, mr.TTL("verify_attempts:a@x.com"), time.Duration(0))

	mr.FastForward(11 * time.Minute)
	ok, err = limiter.Allow(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok, "window has passed")

	require.NoError(t, limiter.Reset(ctx, "a@x.com"))
	assert.False(t, mr.Exists("verify_attempts:a@x.com"))

	t.Run("counter without ttl gets a window", func(t *testing.T) {
		_, err := mr.Incr("verify_attempts:c@x.com", 5)
		require.NoError(t, err)
		require.Equal(t, time.Duration(0), mr.TTL("verify_attempts:c@x.com"))

		ok, err := limiter.Allow(ctx, "c@x.com")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 10*time.Minute, mr.TTL("verify_attempts:c@x.com"))

		mr.FastForward(11 * time.Minute)
		ok, err = limiter.Allow(ctx, "c@x.com")
		require.NoError(t, err)
		assert.True(t, ok, "stale counter expires")
	})
}
