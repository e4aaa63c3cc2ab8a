package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diagnosis/jobiq-care/pkg/events"
	"github.com/diagnosis/jobiq-care/pkg/logger"
	"github.com/diagnosis/jobiq-care/services/auth/internal/credential"
	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
	"github.com/diagnosis/jobiq-care/services/auth/internal/mailer"
	"github.com/diagnosis/jobiq-care/services/auth/internal/otp"
	"github.com/diagnosis/jobiq-care/services/auth/internal/repository"
)

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) error
	VerifySignup(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.Account, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *domain.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error
}

type authService struct {
	accounts repository.AccountRepository
	ledger   *otp.Ledger
	hasher   credential.Hasher
	mailer   mailer.Service
	events   events.Publisher
	now      func() time.Time
}

func NewAuthService(
	accounts repository.AccountRepository,
	ledger *otp.Ledger,
	hasher credential.Hasher,
	mailer mailer.Service,
	publisher events.Publisher,
) AuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &authService{
		accounts: accounts,
		ledger:   ledger,
		hasher:   hasher,
		mailer:   mailer,
		events:   publisher,
		now:      time.Now,
	}
}

// Signup stages the account inside a signup OTP and mails the code. The
// record is kept when mailing fails so a resend or out-of-band code still works.
func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	exists, err := s.accounts.Exists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing account: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	code, err := s.ledger.Issue(ctx, req.Email, domain.PendingSignup{Name: req.Name, PasswordHash: passwordHash})
	if err != nil {
		return fmt.Errorf("failed to issue signup otp: %w", err)
	}

	if err := s.mailer.SendSignupCode(ctx, req.Email, req.Name, code); err != nil {
		logger.ErrorContext(ctx, "Failed to send signup code", "error", err, "email", req.Email)
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}

	s.publish(ctx, events.AccountSignupRequested, req.Email, req.Name)
	return nil
}

func (s *authService) VerifySignup(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.Account, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pending, err := s.ledger.Verify(ctx, req.Email, req.OTP, domain.PurposeSignup)
	if err != nil {
		return nil, err
	}
	staged, ok := pending.(domain.PendingSignup)
	if !ok {
		return nil, domain.ErrMismatch
	}

	account := &domain.Account{
		Email:        req.Email,
		Name:         staged.Name,
		PasswordHash: staged.PasswordHash,
		IsVerified:   true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			logger.WarnContext(ctx, "Verified signup for an email that already has an account", "email", req.Email)
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.mailer.SendWelcome(ctx, account.Email, account.Name); err != nil {
		logger.WarnContext(ctx, "Failed to send welcome email", "error", err, "email", account.Email)
	}

	s.publish(ctx, events.AccountVerified, account.Email, account.Name)
	return account, nil
}

// Login checks the password only. The verified flag is not consulted since
// accounts exist only after verification.
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	valid, err := s.hasher.Verify(req.Password, account.PasswordHash)
	if err != nil {
		logger.ErrorContext(ctx, "Stored password hash is unreadable", "error", err, "email", account.Email)
		return nil, domain.ErrUnauthorized
	}
	if !valid {
		return nil, domain.ErrUnauthorized
	}

	return &domain.LoginResponse{Message: "Login successful!", Email: account.Email}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *domain.ForgotPasswordRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	exists, err := s.accounts.Exists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if !exists {
		return domain.ErrAccountNotFound
	}

	code, err := s.ledger.Issue(ctx, req.Email, domain.PendingReset{})
	if err != nil {
		return fmt.Errorf("failed to issue reset otp: %w", err)
	}

	if err := s.mailer.SendResetCode(ctx, req.Email, code); err != nil {
		logger.ErrorContext(ctx, "Failed to send reset code", "error", err, "email", req.Email)
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}

	s.publish(ctx, events.AccountPasswordResetRequested, req.Email, "")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.ledger.Verify(ctx, req.Email, req.OTP, domain.PurposeReset); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, req.Email, passwordHash); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.publish(ctx, events.AccountPasswordReset, req.Email, "")
	return nil
}

func (s *authService) publish(ctx context.Context, subject, email, name string) {
	evt := events.AccountEvent{Email: email, Name: name, OccurredAt: s.now().UTC()}
	if err := s.events.Publish(ctx, subject, evt); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "error", err, "subject", subject)
	}
}
