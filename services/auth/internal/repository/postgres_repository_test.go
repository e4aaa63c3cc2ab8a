package repository

import (
	"context"
	"testing"
	"time"

	"github.com/diagnosis/jobiq-care/pkg/database"
	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresTestImage = "docker.io/library/postgres:16-alpine"

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        postgresTestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "jobiq",
			"POSTGRES_PASSWORD": "jobiq",
			"POSTGRES_DB":       "jobiq",
		},
		// The server restarts once after init; ready only on the second log line.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})

	ctx := context.Background()
	pool, err := database.Connect(ctx, "postgres://jobiq:jobiq@"+addr+"/jobiq?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, EnsureSchema(ctx, pool))
	require.NoError(t, EnsureSchema(ctx, pool), "schema creation is idempotent")
	return pool
}

func TestPostgresStoreContract(t *testing.T) {
	pool := startPostgres(t)
	runStoreContract(t, func(t *testing.T) (AccountRepository, OTPRepository) {
		_, err := pool.Exec(context.Background(), `TRUNCATE accounts, otps`)
		require.NoError(t, err)
		return NewPostgresAccountRepository(pool), NewPostgresOTPRepository(pool)
	})
}

func TestPostgresStoreUnavailable(t *testing.T) {
	pool := startPostgres(t)
	accounts := NewPostgresAccountRepository(pool)
	pool.Close()

	_, err := accounts.Exists(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
