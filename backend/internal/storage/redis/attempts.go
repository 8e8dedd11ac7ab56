package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts verify attempts per email inside a fixed window.
type AttemptLimiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
}

func NewAttemptLimiter(client redis.UniversalClient, limit int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, limit: int64(limit), window: window}
}

// countScript increments the counter and arms the window in one step. A key
// left without a ttl gets one on the next attempt.
var countScript = redis.NewScript(`
local attempts = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return attempts
`)

func attemptKey(email domain.Email) string {
	return "verify_attempts:" + email
}

// Allow records an attempt and reports whether it is within the limit.
func (l *AttemptLimiter) Allow(ctx context.Context, email domain.Email) (bool, error) {
	attempts, err := countScript.Run(ctx, l.client, []string{attemptKey(email)}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to count verify attempt: %w", err)
	}
	return attempts <= l.limit, nil
}

// Reset clears the counter after a successful verification.
func (l *AttemptLimiter) Reset(ctx context.Context, email domain.Email) error {
	if err := l.client.Del(ctx, attemptKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to reset verify attempts: %w", err)
	}
	return nil
}
