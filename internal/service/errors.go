package service

import (
	"errors"

	"github.com/inkwell/inkwell/internal/repository"
)

var (
	ErrPhoneRegistered = errors.New("there is already a user with this phone number, please enter a different value")
	ErrTooManyRequests = errors.New("you requested too much")
	ErrIncorrectCode   = errors.New("the code entered is incorrect")
	ErrCodeExpired     = errors.New("the entered code has expired")

	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")

	ErrForbidden     = errors.New("you do not have permission to perform this action")
	ErrInvalidTarget = errors.New("invalid comment target")
	ErrInvalidParent = errors.New("parent comment belongs to another object")

	ErrNotFound = repository.ErrNotFound
)
