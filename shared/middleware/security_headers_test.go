package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	t.Run("plain http", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SecurityHeaders(false)(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("https adds hsts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SecurityHeaders(true)(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Contains(t, rr.Header().Get("Strict-Transport-Security"), "max-age=")
	})
}
