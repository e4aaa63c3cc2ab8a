package repository

import (
	"context"
	"errors"
	"time"

	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	email         TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	is_verified   BOOLEAN NOT NULL DEFAULT false,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS otps (
	email         TEXT PRIMARY KEY,
	code          TEXT NOT NULL,
	purpose       TEXT NOT NULL CHECK (purpose IN ('signup', 'reset')),
	name          TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	expires_at    TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureSchema creates the accounts and otps tables if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, schema); err != nil {
		return unavailable("create schema", err)
	}
	return nil
}

type pgAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &pgAccountRepository{pool: pool}
}

func (r *pgAccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	if err := r.pool.QueryRow(ctx, q, email).Scan(&exists); err != nil {
		return false, unavailable("check account", err)
	}
	return exists, nil
}

func (r *pgAccountRepository) Create(ctx context.Context, a *domain.Account) error {
	const q = `
		INSERT INTO accounts (email, name, password_hash, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, a.Email, a.Name, a.PasswordHash, a.IsVerified, a.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return unavailable("create account", err)
	}
	return nil
}

func (r *pgAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `
		SELECT email, name, password_hash, is_verified, created_at
		FROM accounts WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a domain.Account
	err := r.pool.QueryRow(ctx, q, email).Scan(&a.Email, &a.Name, &a.PasswordHash, &a.IsVerified, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, unavailable("find account", err)
	}
	return &a, nil
}

func (r *pgAccountRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const q = `UPDATE accounts SET password_hash = $2 WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, email, passwordHash)
	if err != nil {
		return unavailable("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

type pgOTPRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOTPRepository(pool *pgxpool.Pool) OTPRepository {
	return &pgOTPRepository{pool: pool}
}

func (r *pgOTPRepository) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	const q = `
		INSERT INTO otps (email, code, purpose, name, password_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			code = EXCLUDED.code,
			purpose = EXCLUDED.purpose,
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	purpose, name, hash := domain.PendingFields(rec.Pending)
	if _, err := r.pool.Exec(ctx, q, rec.Email, rec.Code, purpose, name, hash, rec.ExpiresAt, rec.CreatedAt); err != nil {
		return unavailable("store otp", err)
	}
	return nil
}

func (r *pgOTPRepository) Find(ctx context.Context, email string) (*domain.OTPRecord, error) {
	const q = `
		SELECT email, code, purpose, name, password_hash, expires_at, created_at
		FROM otps WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		rec                 domain.OTPRecord
		purpose, name, hash string
	)
	err := r.pool.QueryRow(ctx, q, email).Scan(&rec.Email, &rec.Code, &purpose, &name, &hash, &rec.ExpiresAt, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOTPNotFound
	}
	if err != nil {
		return nil, unavailable("find otp", err)
	}

	pending, err := domain.PendingFromFields(purpose, name, hash)
	if err != nil {
		return nil, err
	}
	rec.Pending = pending
	return &rec, nil
}

func (r *pgOTPRepository) DeleteIfCode(ctx context.Context, email, code string) (bool, error) {
	const q = `DELETE FROM otps WHERE email = $1 AND code = $2`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, email, code)
	if err != nil {
		return false, unavailable("consume otp", err)
	}
	return tag.RowsAffected() == 1, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
