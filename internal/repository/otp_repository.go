package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewOTPRepository(db *gorm.DB, logger *logrus.Logger) *OTPRepository {
	return &OTPRepository{
		db:     db,
		logger: logger,
	}
}

// RecordIssue stores code as the latest one for phoneNumber and bumps the
// request counter in a single upsert, creating the record on first use.
// Concurrent requests for one phone each count; the last code written wins.
func (r *OTPRepository) RecordIssue(ctx context.Context, phoneNumber, code string) (*models.PhoneOTP, error) {
	db := r.db.WithContext(ctx)

	record := models.PhoneOTP{Phone: phoneNumber, OTP: code, Count: 1}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "phone"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"otp":        code,
			"count":      gorm.Expr("phone_otps.count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&record).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to store OTP record")
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	// The upsert leaves record with the values it tried to insert.
	var stored models.PhoneOTP
	if err := db.Where("phone = ?", phoneNumber).First(&stored).Error; err != nil {
		r.logger.WithError(err).Error("Failed to read OTP record")
		return nil, fmt.Errorf("failed to read OTP record: %w", err)
	}
	return &stored, nil
}

// FindByCode returns every record whose latest code equals code, oldest first.
func (r *OTPRepository) FindByCode(ctx context.Context, code string) ([]models.PhoneOTP, error) {
	var records []models.PhoneOTP
	if err := r.db.WithContext(ctx).Where("otp = ?", code).Order("id").Find(&records).Error; err != nil {
		r.logger.WithError(err).Error("Failed to look up OTP records")
		return nil, fmt.Errorf("failed to find OTP: %w", err)
	}
	return records, nil
}
