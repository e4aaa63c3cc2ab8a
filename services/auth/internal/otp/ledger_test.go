package otp

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
	"github.com/diagnosis/jobiq-care/services/auth/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func fixedCodes(codes ...string) CodeGenerator {
	var i int32
	return func(int) (string, error) {
		n := atomic.AddInt32(&i, 1) - 1
		return codes[int(n)%len(codes)], nil
	}
}

func newTestLedger(codes ...string) (*Ledger, *repository.MemoryOTPRepository, *fakeClock) {
	repo := repository.NewMemoryOTPRepository()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := NewLedger(repo, 5*time.Minute, 6, WithClock(clock.Now), WithGenerator(fixedCodes(codes...)))
	return l, repo, clock
}

func TestIssue_StoresRecord(t *testing.T) {
	l, repo, clock := newTestLedger("123456")
	ctx := context.Background()

	code, err := l.Issue(ctx, "a@x.com", domain.PendingSignup{Name: "Ana", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	rec, err := repo.Find(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(5*time.Minute), rec.ExpiresAt)
	assert.Equal(t, domain.PurposeSignup, rec.Purpose())
}

func TestIssue_ReplacesAcrossPurposes(t *testing.T) {
	l, repo, _ := newTestLedger("111111", "222222")
	ctx := context.Background()

	_, err := l.Issue(ctx, "a@x.com", domain.PendingSignup{Name: "Ana", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = l.Issue(ctx, "a@x.com", domain.PendingReset{})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.Len())

	_, err = l.Verify(ctx, "a@x.com", "111111", domain.PurposeSignup)
	assert.ErrorIs(t, err, domain.ErrMismatch, "signup record was clobbered by reset")

	pending, err := l.Verify(ctx, "a@x.com", "222222", domain.PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, domain.PendingReset{}, pending)
}

func TestVerify_SuccessConsumes(t *testing.T) {
	l, repo, _ := newTestLedger("123456")
	ctx := context.Background()

	_, err := l.Issue(ctx, "a@x.com", domain.PendingSignup{Name: "Ana", PasswordHash: "h"})
	require.NoError(t, err)

	pending, err := l.Verify(ctx, "a@x.com", "123456", domain.PurposeSignup)
	require.NoError(t, err)
	assert.Equal(t, domain.PendingSignup{Name: "Ana", PasswordHash: "h"}, pending)
	assert.Equal(t, 0, repo.Len())

	_, err = l.Verify(ctx, "a@x.com", "123456", domain.PurposeSignup)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerify_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		l, _, _ := newTestLedger("123456")
		_, err := l.Verify(ctx, "nobody@x.com", "123456", domain.PurposeSignup)
		assert.ErrorIs(t, err, domain.ErrOTPNotFound)
	})

	t.Run("purpose mismatch both ways", func(t *testing.T) {
		l, _, _ := newTestLedger("123456")
		_, _ = l.Issue(ctx, "s@x.com", domain.PendingSignup{Name: "S", PasswordHash: "h"})
		_, _ = l.Issue(ctx, "r@x.com", domain.PendingReset{})

		_, err := l.Verify(ctx, "s@x.com", "123456", domain.PurposeReset)
		assert.ErrorIs(t, err, domain.ErrMismatch)
		_, err = l.Verify(ctx, "r@x.com", "123456", domain.PurposeSignup)
		assert.ErrorIs(t, err, domain.ErrMismatch)
	})

	t.Run("wrong code keeps record", func(t *testing.T) {
		l, repo, _ := newTestLedger("123456")
		_, _ = l.Issue(ctx, "a@x.com", domain.PendingReset{})

		_, err := l.Verify(ctx, "a@x.com", "654321", domain.PurposeReset)
		assert.ErrorIs(t, err, domain.ErrInvalidCode)
		assert.Equal(t, 1, repo.Len())

		_, err = l.Verify(ctx, "a@x.com", "123456", domain.PurposeReset)
		assert.NoError(t, err)
	})

	t.Run("expired at exactly ttl", func(t *testing.T) {
		l, _, clock := newTestLedger("123456")
		_, _ = l.Issue(ctx, "a@x.com", domain.PendingReset{})

		clock.Advance(5*time.Minute - time.Second)
		_, err := l.Verify(ctx, "a@x.com", "000000", domain.PurposeReset)
		assert.ErrorIs(t, err, domain.ErrInvalidCode, "still live one second before expiry")

		clock.Advance(time.Second)
		_, err = l.Verify(ctx, "a@x.com", "123456", domain.PurposeReset)
		assert.ErrorIs(t, err, domain.ErrExpired)
	})

	t.Run("expired and wrong code reports expired", func(t *testing.T) {
		l, _, clock := newTestLedger("123456")
		_, _ = l.Issue(ctx, "a@x.com", domain.PendingReset{})
		clock.Advance(10 * time.Minute)

		_, err := l.Verify(ctx, "a@x.com", "999999", domain.PurposeReset)
		assert.ErrorIs(t, err, domain.ErrExpired)
	})
}

func TestVerify_ConcurrentSingleWinner(t *testing.T) {
	l, _, _ := newTestLedger("123456")
	ctx := context.Background()
	_, err := l.Issue(ctx, "a@x.com", domain.PendingReset{})
	require.NoError(t, err)

	const n = 16
	var (
		wg        sync.WaitGroup
		successes int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Verify(ctx, "a@x.com", "123456", domain.PurposeReset); err == nil {
				atomic.AddInt32(&successes, 1)
			} else {
				assert.ErrorIs(t, err, domain.ErrOTPNotFound)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes)
}

func TestRandomDigits(t *testing.T) {
	seen := make(map[byte]bool)
	for i := 0; i < 200; i++ {
		code, err := RandomDigits(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for j := 0; j < len(code); j++ {
			require.True(t, code[j] >= '0' && code[j] <= '9')
			seen[code[j]] = true
		}
	}
	assert.Len(t, seen, 10, "every digit appears over 1200 draws")

	_, err := RandomDigits(0)
	assert.Error(t, err)
}
