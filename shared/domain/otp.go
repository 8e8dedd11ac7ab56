package domain

import "time"

const (
	OtpMin = 100000
	OtpMax = 999999
)

// OneTimeCode is a single email verification code. Validity is derived
// from CreatedAt and the configured ttl.
type OneTimeCode struct {
	Email     Email
	Code      string
	CreatedAt time.Time
}

func (c OneTimeCode) ExpiresAt(ttl time.Duration) time.Time {
	return c.CreatedAt.Add(ttl)
}

// Expired reports whether now is past the validity window. A code is still
// valid at exactly CreatedAt+ttl.
func (c OneTimeCode) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.CreatedAt) > ttl
}
