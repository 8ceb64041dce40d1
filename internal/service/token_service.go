package service

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
)

// RefreshTokenStore records issued refresh tokens so they can be rotated and
// revoked. Get and Revoke return repository.ErrNotFound for unknown tokens.
type RefreshTokenStore interface {
	Store(ctx context.Context, tokenData models.RefreshTokenData) error
	Get(ctx context.Context, jti string) (*models.RefreshTokenData, error)
	Revoke(ctx context.Context, jti string) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// TokenService issues, rotates and revokes session token pairs.
type TokenService struct {
	jwt    *JWTService
	store  RefreshTokenStore
	users  UserGetter
	logger *logrus.Logger
}

func NewTokenService(jwtService *JWTService, store RefreshTokenStore, users UserGetter, logger *logrus.Logger) *TokenService {
	return &TokenService{
		jwt:    jwtService,
		store:  store,
		users:  users,
		logger: logger,
	}
}

func (s *TokenService) Issue(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	pair, refreshClaims, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	err = s.store.Store(ctx, models.RefreshTokenData{
		JTI:       refreshClaims.JTI,
		UserID:    user.ID,
		Phone:     user.Phone,
		CreatedAt: time.Now(),
		ExpiresAt: refreshClaims.ExpiresAt.Time,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("Token pair issued")
	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair and revokes the old one.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	tokenData, err := s.store.Get(ctx, claims.JTI)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if tokenData.Revoked {
		s.logger.WithField("user_id", tokenData.UserID).Warn("Revoked refresh token presented")
		return nil, ErrTokenRevoked
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	if err := s.store.Revoke(ctx, claims.JTI); err != nil {
		return nil, err
	}

	return s.Issue(ctx, user)
}

func (s *TokenService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return err
	}

	if err := s.store.Revoke(ctx, claims.JTI); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (s *TokenService) parseRefresh(refreshToken string) (*Claims, error) {
	claims, err := s.jwt.VerifyToken(refreshToken)
	if err != nil {
		s.logger.WithError(err).Debug("Refresh token verification failed")
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
