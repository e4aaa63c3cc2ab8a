package repository

import (
	"context"
	"sync"

	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
)

// MemoryAccountRepository keeps accounts in a map. Used for
// STORE_DRIVER=memory and in tests.
type MemoryAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]domain.Account)}
}

func (r *MemoryAccountRepository) Exists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.accounts[email]
	return ok, nil
}

func (r *MemoryAccountRepository) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.Email]; ok {
		return domain.ErrAlreadyExists
	}
	r.accounts[a.Email] = *a
	return nil
}

func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *MemoryAccountRepository) UpdatePassword(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[email]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	r.accounts[email] = a
	return nil
}

func (r *MemoryAccountRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

type MemoryOTPRepository struct {
	mu      sync.Mutex
	records map[string]domain.OTPRecord
}

func NewMemoryOTPRepository() *MemoryOTPRepository {
	return &MemoryOTPRepository{records: make(map[string]domain.OTPRecord)}
}

func (r *MemoryOTPRepository) Upsert(_ context.Context, rec *domain.OTPRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Email] = *rec
	return nil
}

func (r *MemoryOTPRepository) Find(_ context.Context, email string) (*domain.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[email]
	if !ok {
		return nil, domain.ErrOTPNotFound
	}
	return &rec, nil
}

func (r *MemoryOTPRepository) DeleteIfCode(_ context.Context, email, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[email]
	if !ok || rec.Code != code {
		return false, nil
	}
	delete(r.records, email)
	return true, nil
}

func (r *MemoryOTPRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
