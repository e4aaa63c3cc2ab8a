package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
)

const queryTimeout = 3 * time.Second

type AccountRepository interface {
	Exists(ctx context.Context, email string) (bool, error)
	// Create fails with domain.ErrAlreadyExists when the store already
	// holds the email.
	Create(ctx context.Context, account *domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type OTPRepository interface {
	// Upsert replaces any record for the same email.
	Upsert(ctx context.Context, rec *domain.OTPRecord) error
	Find(ctx context.Context, email string) (*domain.OTPRecord, error)
	// DeleteIfCode removes the record only while it still holds code, and
	// reports whether it did.
	DeleteIfCode(ctx context.Context, email, code string) (bool, error)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
