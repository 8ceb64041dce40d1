package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type JWTService struct {
	secretKey     []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	logger        *logrus.Logger
}

func NewJWTService(cfg *config.JWTConfig, logger *logrus.Logger) (*JWTService, error) {
	secretKey := []byte(cfg.SecretKey)
	if len(secretKey) < 32 {
		return nil, fmt.Errorf("secret key must be at least 32 bytes")
	}

	return &JWTService{
		secretKey:     secretKey,
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		logger:        logger,
	}, nil
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Phone  string `json:"phone"`
	Type   string `json:"type"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

// GenerateTokenPair signs a fresh access/refresh pair for user and returns
// the refresh claims so the caller can register them.
func (s *JWTService) GenerateTokenPair(user *models.User) (*models.TokenPair, *Claims, error) {
	now := time.Now()

	accessToken, _, err := s.sign(user, TokenTypeAccess, now, s.accessExpiry)
	if err != nil {
		return nil, nil, err
	}

	refreshToken, refreshClaims, err := s.sign(user, TokenTypeRefresh, now, s.refreshExpiry)
	if err != nil {
		return nil, nil, err
	}

	return &models.TokenPair{
		Refresh: refreshToken,
		Access:  accessToken,
	}, refreshClaims, nil
}

func (s *JWTService) sign(user *models.User, tokenType string, now time.Time, expiry time.Duration) (string, *Claims, error) {
	jti := uuid.New().String()
	claims := &Claims{
		UserID: user.ID,
		Phone:  user.Phone,
		Type:   tokenType,
		JTI:    jti,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.WithError(err).WithField("type", tokenType).Error("Failed to sign token")
		return "", nil, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, claims, nil
}

func (s *JWTService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
