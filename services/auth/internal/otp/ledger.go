// Package otp issues and verifies single-use, per-email numeric codes.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
	"github.com/diagnosis/jobiq-care/services/auth/internal/repository"
)

const (
	DefaultTTL    = 300 * time.Second
	DefaultDigits = 6
)

// CodeGenerator returns a code of exactly digits decimal digits.
type CodeGenerator func(digits int) (string, error)

type Ledger struct {
	repo     repository.OTPRepository
	ttl      time.Duration
	digits   int
	now      func() time.Time
	generate CodeGenerator
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithGenerator(g CodeGenerator) Option {
	return func(l *Ledger) { l.generate = g }
}

func NewLedger(repo repository.OTPRepository, ttl time.Duration, digits int, opts ...Option) *Ledger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if digits <= 0 {
		digits = DefaultDigits
	}
	l := &Ledger{
		repo:     repo,
		ttl:      ttl,
		digits:   digits,
		now:      time.Now,
		generate: RandomDigits,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Issue stores a fresh code for email, replacing whatever was there, and
// returns the plaintext code for delivery.
func (l *Ledger) Issue(ctx context.Context, email string, pending domain.Pending) (string, error) {
	if pending == nil {
		return "", fmt.Errorf("issue otp: missing pending state")
	}

	code, err := l.generate(l.digits)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	now := l.now()
	rec := &domain.OTPRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(l.ttl),
		CreatedAt: now,
		Pending:   pending,
	}
	if err := l.repo.Upsert(ctx, rec); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks, in order, that a record exists, that its purpose matches,
// that it has not expired, and that the code matches. Only then is the
// record consumed. Expired records are left in place.
func (l *Ledger) Verify(ctx context.Context, email, code string, purpose domain.Purpose) (domain.Pending, error) {
	rec, err := l.repo.Find(ctx, email)
	if err != nil {
		return nil, err
	}

	if rec.Purpose() != purpose {
		return nil, domain.ErrMismatch
	}
	if rec.Expired(l.now()) {
		return nil, domain.ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return nil, domain.ErrInvalidCode
	}

	consumed, err := l.repo.DeleteIfCode(ctx, email, rec.Code)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// Another verification consumed it, or a reissue replaced it.
		return nil, domain.ErrOTPNotFound
	}
	return rec.Pending, nil
}

// RandomDigits draws each digit uniformly from crypto/rand.
func RandomDigits(digits int) (string, error) {
	if digits <= 0 {
		return "", errors.New("digits must be positive")
	}
	ten := big.NewInt(10)
	buf := make([]byte, digits)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
