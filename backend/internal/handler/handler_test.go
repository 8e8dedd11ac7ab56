package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aljannat-dev/aljannat/shared/api"
	"github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/domain"
	mw "github.com/aljannat-dev/aljannat/shared/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		JwtTTL:                time.Hour,
		MaxImageSize:          1 << 20,
		AllowedImageMimeTypes: []string{"image/png", "image/jpeg", "image/jpg", "image/gif", "image/webp"},
	}}
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) api.Response {
	t.Helper()
	var resp api.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

// withUser injects user the same way the auth middleware does.
func withUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), mw.UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// serve routes req through a chi router so URL params resolve.
func serve(method, pattern string, fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Method(method, pattern, fn)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
