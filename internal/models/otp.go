package models

import "time"

// PhoneOTP holds the latest code issued to a phone and how many times one was requested.
type PhoneOTP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Phone     string    `gorm:"column:phone;size:20;uniqueIndex;not null" json:"phone"`
	OTP       string    `gorm:"column:otp;size:8;index" json:"-"`
	Count     int       `gorm:"column:count;not null;default:0" json:"count"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PhoneOTP) TableName() string {
	return "phone_otps"
}
