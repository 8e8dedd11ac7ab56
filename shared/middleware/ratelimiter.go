package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/aljannat-dev/aljannat/shared/middleware/ratelimiter"
	"github.com/aljannat-dev/aljannat/shared/utils"
)

// IdentityFunc picks the key a request is rate limited by.
type IdentityFunc func(r *http.Request) (string, error)

// RateLimit rejects requests whose identity has run out of tokens with 429 and
// a Retry-After header. Admin sessions are never limited.
func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity IdentityFunc) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(rl.RetryAfter().Seconds())))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				w.Header().Set("Retry-After", retryAfter)
				utils.WriteErrorAndStatusCode(w, errors.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.UserRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetIP keys by client address. chi's RealIP, mounted ahead of this, has
// already rewritten RemoteAddr from proxy headers.
func GetIP(r *http.Request) (string, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return "", fmt.Errorf("invalid IP address: %s", host)
	}
	return "ip:" + ip.String(), nil
}

// MaxJSONBodySize caps how much of a JSON body an identity func will buffer.
const MaxJSONBodySize = 1 << 20

var errBodyTooLarge = &errors.ErrorWithStatusCode{
	Message:    "Body is too large",
	StatusCode: http.StatusRequestEntityTooLarge,
	Kind:       errors.KindValidation,
}

// GetEmailFromBody keys by the normalized "email" field of a JSON body. The
// body is put back for the handler.
func GetEmailFromBody(r *http.Request) (string, error) {
	if r.ContentLength > MaxJSONBodySize {
		return "", errBodyTooLarge
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBodySize+1))
	if err != nil {
		return "", errors.Validation("Body is invalid json")
	}
	if len(body) > MaxJSONBodySize {
		return "", errBodyTooLarge
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", errors.Validation("Body is invalid json")
	}
	email := utils.NormalizeEmail(payload.Email)
	if email == "" {
		return "", errors.Validation("Required fields missing")
	}
	return "email:" + email, nil
}
