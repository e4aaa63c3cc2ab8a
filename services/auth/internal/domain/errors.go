package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCode        = errors.New("invalid code")
	ErrExpired            = errors.New("code expired")
	ErrMismatch           = errors.New("code purpose mismatch")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotificationFailed = errors.New("notification failed")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrValidation         = errors.New("validation failed")

	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrOTPNotFound     = fmt.Errorf("otp %w", ErrNotFound)
)

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
