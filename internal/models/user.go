package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// unusablePasswordPrefix marks a password hash that never matches any input.
const unusablePasswordPrefix = "!"

var ErrPhoneRequired = errors.New("user must have a phone number")

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Phone        string     `gorm:"column:phone;size:20;uniqueIndex;not null" json:"phone"`
	FirstName    string     `gorm:"column:first_name;size:150" json:"first_name"`
	LastName     string     `gorm:"column:last_name;size:150" json:"last_name"`
	Email        string     `gorm:"column:email;size:254" json:"email"`
	PasswordHash string     `gorm:"column:password;size:128;not null" json:"-"`
	IsActive     bool       `gorm:"column:is_active;not null" json:"is_active"`
	IsStaff      bool       `gorm:"column:is_staff;not null;default:false" json:"is_staff"`
	IsSuperuser  bool       `gorm:"column:is_superuser;not null;default:false" json:"is_superuser"`
	Author       bool       `gorm:"column:author;not null;default:false" json:"author"`
	SpecialUser  *time.Time `gorm:"column:special_user" json:"special_user"`
	DateJoined   time.Time  `gorm:"column:date_joined;autoCreateTime" json:"date_joined"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// NewUser builds a passwordless user for phone.
func NewUser(phone string) (*User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	u := &User{Phone: phone, IsActive: true}
	if err := u.SetUnusablePassword(); err != nil {
		return nil, err
	}
	return u, nil
}

// NewSuperuser builds a passwordless user with staff and superuser flags set.
func NewSuperuser(phone string) (*User, error) {
	u, err := NewUser(phone)
	if err != nil {
		return nil, err
	}
	u.IsStaff = true
	u.IsSuperuser = true
	return u, nil
}

func (u *User) SetUnusablePassword() error {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	u.PasswordHash = unusablePasswordPrefix + hex.EncodeToString(b)
	return nil
}

func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != "" && !strings.HasPrefix(u.PasswordHash, unusablePasswordPrefix)
}

// IsSpecialUser reports whether the special membership is still running.
func (u *User) IsSpecialUser(now time.Time) bool {
	return u.SpecialUser != nil && u.SpecialUser.After(now)
}

// CanPublish reports whether the user may create blog posts.
func (u *User) CanPublish() bool {
	return u.Author || u.IsSuperuser
}
