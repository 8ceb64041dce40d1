package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/service"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	userContextKey   contextKey = "user"
	claimsContextKey contextKey = "claims"
)

// UserFromContext returns the authenticated user placed there by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func ClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*service.Claims)
	return claims, ok
}

// WithUser stores user in ctx the way Authenticate does.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

type AuthMiddleware struct {
	jwtService *service.JWTService
	users      service.UserGetter
	logger     *logrus.Logger
}

func NewAuthMiddleware(jwtService *service.JWTService, users service.UserGetter, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger,
	}
}

// Authenticate resolves a bearer access token to its user when one is sent.
// Requests without an Authorization header pass through anonymously; a
// header that does not check out is rejected with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.VerifyToken(parts[1])
		if err != nil {
			m.logger.WithError(err).Debug("Token verification failed")
			m.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		if claims.Type != service.TokenTypeAccess {
			m.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token type")
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				m.logger.WithError(err).Error("Failed to load token user")
			}
			m.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
			return
		}
		if !user.IsActive {
			m.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User is inactive")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		ctx = WithUser(ctx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests with 403. It expects Authenticate
// to have run first.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			m.respondError(w, http.StatusForbidden, "NOT_AUTHENTICATED", "Authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) RequireSuperuser(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		if !user.IsSuperuser {
			m.respondError(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action.")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (m *AuthMiddleware) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}
