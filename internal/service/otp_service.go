package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
)

type OTPUserStore interface {
	ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error)
	GetOrCreate(ctx context.Context, phoneNumber string) (*models.User, error)
}

type OTPStore interface {
	RecordIssue(ctx context.Context, phoneNumber, code string) (*models.PhoneOTP, error)
	FindByCode(ctx context.Context, code string) ([]models.PhoneOTP, error)
}

type CodeCache interface {
	Set(ctx context.Context, phoneNumber, code string, ttl time.Duration) error
	Match(ctx context.Context, phoneNumber, code string) (matched, live bool, err error)
}

// Sender delivers an issued code to the phone out of band.
type Sender interface {
	Send(ctx context.Context, phoneNumber, code string) error
}

type PairIssuer interface {
	Issue(ctx context.Context, user *models.User) (*models.TokenPair, error)
}

type OTPService struct {
	users  OTPUserStore
	otps   OTPStore
	cache  CodeCache
	sender Sender
	tokens PairIssuer
	cfg    *config.OTPConfig
	logger *logrus.Logger

	newCode func(length int) (string, error)
}

func NewOTPService(
	users OTPUserStore,
	otps OTPStore,
	cache CodeCache,
	sender Sender,
	tokens PairIssuer,
	cfg *config.OTPConfig,
	logger *logrus.Logger,
) *OTPService {
	s := &OTPService{
		users:  users,
		otps:   otps,
		cache:  cache,
		sender: sender,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
	}
	s.newCode = s.generateRandomOTP
	return s
}

// Issue generates a code for an unregistered phone number. The request
// counter is bumped before the limit is checked, so a rejected request still
// overwrites the stored code.
func (s *OTPService) Issue(ctx context.Context, phoneNumber string) (string, error) {
	exists, err := s.users.ExistsByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrPhoneRegistered
	}

	code, err := s.newCode(s.cfg.Length)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	record, err := s.otps.RecordIssue(ctx, phoneNumber, code)
	if err != nil {
		return "", err
	}
	if record.Count >= s.cfg.MaxRequests {
		s.logger.WithFields(logrus.Fields{
			"phone": phoneNumber,
			"count": record.Count,
		}).Warn("OTP request limit reached")
		return "", ErrTooManyRequests
	}

	if err := s.cache.Set(ctx, phoneNumber, code, s.cfg.Expiry); err != nil {
		return "", err
	}

	if err := s.sender.Send(ctx, phoneNumber, code); err != nil {
		s.logger.WithError(err).WithField("phone", phoneNumber).Warn("Failed to deliver OTP")
	}

	return code, nil
}

// Verify accepts code when it is the latest one stored for some phone and
// that phone's cache entry is still live and equal to it. The code is not
// consumed; resubmitting it inside the window succeeds again.
func (s *OTPService) Verify(ctx context.Context, code string) (*models.TokenPair, error) {
	records, err := s.otps.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrIncorrectCode
	}

	mismatch := false
	for _, record := range records {
		matched, live, err := s.cache.Match(ctx, record.Phone, code)
		if err != nil {
			return nil, err
		}
		if !live {
			continue
		}
		if !matched {
			mismatch = true
			continue
		}

		user, err := s.users.GetOrCreate(ctx, record.Phone)
		if err != nil {
			return nil, err
		}
		return s.tokens.Issue(ctx, user)
	}

	if mismatch {
		return nil, ErrIncorrectCode
	}
	return nil, ErrCodeExpired
}

func (s *OTPService) generateRandomOTP(length int) (string, error) {
	otp := make([]byte, length)
	for i := range otp {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		otp[i] = byte('0' + num.Int64())
	}
	return string(otp), nil
}
