package domain

import (
	"fmt"
	"time"
)

type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeReset  Purpose = "reset"
)

func ParsePurpose(s string) (Purpose, error) {
	switch Purpose(s) {
	case PurposeSignup, PurposeReset:
		return Purpose(s), nil
	default:
		return "", fmt.Errorf("%w: unknown otp purpose %q", ErrMismatch, s)
	}
}

// Pending is the state staged inside an OTP record until the code is
// verified. Exactly one of PendingSignup or PendingReset.
type Pending interface {
	Purpose() Purpose
	isPending()
}

// PendingSignup holds the account to materialise on successful verification.
type PendingSignup struct {
	Name         string
	PasswordHash string
}

func (PendingSignup) Purpose() Purpose { return PurposeSignup }
func (PendingSignup) isPending()       {}

// PendingReset stages nothing; the account already exists.
type PendingReset struct{}

func (PendingReset) Purpose() Purpose { return PurposeReset }
func (PendingReset) isPending()       {}

// OTPRecord is keyed by Email. At most one exists per email.
type OTPRecord struct {
	Email     string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
	Pending   Pending
}

func (r *OTPRecord) Purpose() Purpose {
	if r.Pending == nil {
		return ""
	}
	return r.Pending.Purpose()
}

// Expired reports whether the record is dead at now. A record is dead at
// exactly ExpiresAt.
func (r *OTPRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// PendingFromFields rebuilds the variant from flat storage columns.
func PendingFromFields(purpose, name, passwordHash string) (Pending, error) {
	p, err := ParsePurpose(purpose)
	if err != nil {
		return nil, err
	}
	if p == PurposeSignup {
		return PendingSignup{Name: name, PasswordHash: passwordHash}, nil
	}
	return PendingReset{}, nil
}

// PendingFields flattens the variant for storage.
func PendingFields(p Pending) (purpose, name, passwordHash string) {
	switch v := p.(type) {
	case PendingSignup:
		return string(PurposeSignup), v.Name, v.PasswordHash
	case PendingReset:
		return string(PurposeReset), "", ""
	default:
		return "", "", ""
	}
}
