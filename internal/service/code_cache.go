package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// RedisCodeCache maps a phone number to a bcrypt hash of its live OTP code.
// Expiry is left to redis via SET EX.
type RedisCodeCache struct {
	client *redis.Client
	prefix string
	logger *logrus.Logger
}

func NewRedisCodeCache(client *redis.Client, prefix string, logger *logrus.Logger) *RedisCodeCache {
	return &RedisCodeCache{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (c *RedisCodeCache) key(phoneNumber string) string {
	return c.prefix + phoneNumber
}

func (c *RedisCodeCache) Set(ctx context.Context, phoneNumber, code string, ttl time.Duration) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}
	if err := c.client.Set(ctx, c.key(phoneNumber), hashed, ttl).Err(); err != nil {
		c.logger.WithError(err).Error("Failed to cache OTP code")
		return fmt.Errorf("failed to cache code: %w", err)
	}
	return nil
}

// Match compares code against the cached hash for phoneNumber. live is false
// once the entry expired; matched is only meaningful when live is true.
func (c *RedisCodeCache) Match(ctx context.Context, phoneNumber, code string) (matched, live bool, err error) {
	hashed, err := c.client.Get(ctx, c.key(phoneNumber)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		c.logger.WithError(err).Error("Failed to read OTP code from cache")
		return false, false, fmt.Errorf("failed to read cached code: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(hashed), []byte(code))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, true, nil
	}
	if err != nil {
		return false, true, fmt.Errorf("failed to compare code: %w", err)
	}
	return true, true, nil
}
