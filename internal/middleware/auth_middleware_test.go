package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/service"
	"github.com/sirupsen/logrus"
)

type stubUsers map[uint]*models.User

func (s stubUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func newTestMiddleware(t *testing.T, users stubUsers) (*AuthMiddleware, *service.JWTService) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwtService, err := service.NewJWTService(&config.JWTConfig{
		SecretKey:     "0123456789abcdef0123456789abcdef",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	}, logger)
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}
	return NewAuthMiddleware(jwtService, users, logger), jwtService
}

func serve(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	member := &models.User{ID: 1, Phone: "+15550000001", IsActive: true}
	admin := &models.User{ID: 2, Phone: "+15550000002", IsActive: true, IsSuperuser: true}
	inactive := &models.User{ID: 3, Phone: "+15550000003"}
	m, jwtService := newTestMiddleware(t, stubUsers{1: member, 2: admin, 3: inactive})

	bearer := func(u *models.User, refresh bool) string {
		pair, _, err := jwtService.GenerateTokenPair(u)
		if err != nil {
			t.Fatalf("GenerateTokenPair: %v", err)
		}
		if refresh {
			return "Bearer " + pair.Refresh
		}
		return "Bearer " + pair.Access
	}
	ghost := &models.User{ID: 99, Phone: "+15550000099"}

	var seen *models.User
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		handler  http.Handler
		header   string
		want     int
		wantUser *models.User
	}{
		{"anonymous passes", m.Authenticate(final), "", http.StatusOK, nil},
		{"member resolved", m.Authenticate(final), bearer(member, false), http.StatusOK, member},
		{"bad scheme", m.Authenticate(final), "Token abc", http.StatusUnauthorized, nil},
		{"garbage token", m.Authenticate(final), "Bearer abc", http.StatusUnauthorized, nil},
		{"refresh token as access", m.Authenticate(final), bearer(member, true), http.StatusUnauthorized, nil},
		{"unknown user", m.Authenticate(final), bearer(ghost, false), http.StatusUnauthorized, nil},
		{"inactive user", m.Authenticate(final), bearer(inactive, false), http.StatusUnauthorized, nil},
		{"require auth anonymous", m.Authenticate(m.RequireAuth(final)), "", http.StatusForbidden, nil},
		{"require auth member", m.Authenticate(m.RequireAuth(final)), bearer(member, false), http.StatusOK, member},
		{"superuser route member", m.Authenticate(m.RequireSuperuser(final)), bearer(member, false), http.StatusForbidden, nil},
		{"superuser route admin", m.Authenticate(m.RequireSuperuser(final)), bearer(admin, false), http.StatusOK, admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			rec := serve(tt.handler, tt.header)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tt.want, rec.Body.String())
			}
			if seen != tt.wantUser {
				t.Errorf("user = %v, want %v", seen, tt.wantUser)
			}
		})
	}
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := serve(h, "")
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}

func TestCORSMiddlewareAllowsConfiguredOrigin(t *testing.T) {
	h := CORSMiddleware([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow origin = %q, want none", got)
	}
}
