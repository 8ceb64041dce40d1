package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender stands in for an SMS gateway and only logs the code.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, phoneNumber, code string) error {
	s.logger.WithFields(logrus.Fields{
		"phone": phoneNumber,
		"otp":   code,
	}).Info("OTP generated (logged for development)")
	return nil
}
