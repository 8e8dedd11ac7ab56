package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aljannat-dev/aljannat/backend/internal/handler"
	"github.com/aljannat-dev/aljannat/backend/internal/setup"
	"github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/jwt"
	mw "github.com/aljannat-dev/aljannat/shared/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPosters struct {
	deleted []domain.PosterId
}

func (s *stubPosters) List(ctx context.Context) ([]domain.Poster, error) {
	return []domain.Poster{}, nil
}

func (s *stubPosters) Create(ctx context.Context, link string) (domain.Poster, error) {
	return domain.Poster{Id: 1, Link: link}, nil
}

func (s *stubPosters) Update(ctx context.Context, id domain.PosterId, link string) (domain.Poster, error) {
	return domain.Poster{Id: id, Link: link}, nil
}

func (s *stubPosters) Delete(ctx context.Context, id domain.PosterId) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T, posters *stubPosters, mediaRoot string) (http.Handler, *jwt.Jwt) {
	t.Helper()
	cfg := &config.Config{Public: config.Public{
		ApiPrefix:    "/api",
		JwtTTL:       time.Hour,
		MediaBaseURL: "/media",
	}}
	jwtService := jwt.New("router-secret", time.Hour)
	deps := &setup.Dependencies{
		Config:         cfg,
		Handler:        handler.New(handler.Services{Poster: posters}, cfg, okPinger{}),
		AuthMiddleware: mw.NewAuth(jwtService),
		MediaRoot:      mediaRoot,
	}
	return New(deps), jwtService
}

func TestOperationalRoutes(t *testing.T) {
	r, _ := newTestRouter(t, &stubPosters{}, "")

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}

	t.Run("security headers", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	posters := &stubPosters{}
	r, jwtService := newTestRouter(t, posters, "")
	adminToken, err := jwtService.NewToken(domain.User{Id: 1, Email: "a@x.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	memberToken, err := jwtService.NewToken(domain.User{Id: 2, Email: "m@x.com", Role: domain.RoleMember})
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized},
		{name: "member", token: memberToken, wantStatus: http.StatusForbidden},
		{name: "admin", token: adminToken, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/posters/7", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: mw.AccessTokenCookie, Value: tt.token})
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
	assert.Equal(t, []domain.PosterId{7}, posters.deleted)
}

func TestPublicReadNeedsNoToken(t *testing.T) {
	r, _ := newTestRouter(t, &stubPosters{}, "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/posters", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rr.Body.String())
}

func TestMediaFileServer(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2024", "05"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2024", "05", "a.txt"), []byte("hello"), 0o644))
	r, _ := newTestRouter(t, &stubPosters{}, root)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/media/2024/05/a.txt", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
}
