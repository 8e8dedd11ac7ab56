package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
	internal_errors "github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/redis/go-redis/v9"
)

const (
	fieldCode      = "code"
	fieldCreatedAt = "created_at" // unix milliseconds; Lua numbers are doubles
)

// consumeScript deletes the hash only when both the code matches and the
// code is not older than ARGV[2]. It returns created_at, or nil on no match.
var consumeScript = redis.NewScript(`
local stored = redis.call('HGET', KEYS[1], 'code')
if not stored or stored ~= ARGV[1] then
	return false
end
local created = redis.call('HGET', KEYS[1], 'created_at')
if not created or tonumber(created) < tonumber(ARGV[2]) then
	return false
end
redis.call('DEL', KEYS[1])
return created
`)

// restoreScript writes the code back unless a newer one was issued meanwhile.
var restoreScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'code', ARGV[1], 'created_at', ARGV[2])
redis.call('PEXPIREAT', KEYS[1], ARGV[3])
return 1
`)

// Ledger stores one hash per email under otp:<email>. The key expires with
// the code, so no sweeping is needed.
type Ledger struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewLedger(client redis.UniversalClient, ttl time.Duration) *Ledger {
	return &Ledger{client: client, ttl: ttl}
}

func codeKey(email domain.Email) string {
	return "otp:" + email
}

func (l *Ledger) ReplaceCode(ctx context.Context, otp domain.OneTimeCode) error {
	key := codeKey(otp.Email)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldCode, otp.Code, fieldCreatedAt, otp.CreatedAt.UnixMilli())
		pipe.PExpireAt(ctx, key, otp.ExpiresAt(l.ttl))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	return nil
}

func (l *Ledger) ConsumeCode(ctx context.Context, email domain.Email, code string, notBefore time.Time) (domain.OneTimeCode, error) {
	res, err := consumeScript.Run(ctx, l.client, []string{codeKey(email)}, code, notBefore.UnixMilli()).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.OneTimeCode{}, internal_errors.NotFound("Code not found")
		}
		return domain.OneTimeCode{}, fmt.Errorf("failed to consume code: %w", err)
	}
	ms, err := strconv.ParseInt(res, 10, 64)
	if err != nil {
		return domain.OneTimeCode{}, fmt.Errorf("corrupt created_at %q: %w", res, err)
	}
	return domain.OneTimeCode{Email: email, Code: code, CreatedAt: time.UnixMilli(ms).UTC()}, nil
}

// RestoreCode puts a consumed code back with whatever validity it had left.
func (l *Ledger) RestoreCode(ctx context.Context, otp domain.OneTimeCode) error {
	err := restoreScript.Run(ctx, l.client, []string{codeKey(otp.Email)},
		otp.Code, otp.CreatedAt.UnixMilli(), otp.ExpiresAt(l.ttl).UnixMilli()).Err()
	if err != nil {
		return fmt.Errorf("failed to restore code: %w", err)
	}
	return nil
}

func (l *Ledger) DeleteCodes(ctx context.Context, email domain.Email) error {
	if err := l.client.Del(ctx, codeKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete codes: %w", err)
	}
	return nil
}
