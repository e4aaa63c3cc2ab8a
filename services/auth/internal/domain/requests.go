package domain

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Emails are stored exactly as given, so normalisation only trims.
// Passwords are never touched.

func (r *SignupRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

func (r *SignupRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Name == "" {
		return invalid("name", "name is required")
	}
	if r.Password == "" {
		return invalid("password", "password is required")
	}
	return nil
}

func (r *VerifyOTPRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.OTP = strings.TrimSpace(r.OTP)
}

// Validate only checks presence of the code. Its format is left to the
// ledger, which reports a malformed code as ErrInvalidCode.
func (r *VerifyOTPRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validateCode(r.OTP)
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Validate leaves the password to the hasher, so an empty one is
// reported as ErrUnauthorized.
func (r *LoginRequest) Validate() error {
	return validateEmail(r.Email)
}

func (r *ForgotPasswordRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *ForgotPasswordRequest) Validate() error {
	return validateEmail(r.Email)
}

func (r *ResetPasswordRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.OTP = strings.TrimSpace(r.OTP)
}

func (r *ResetPasswordRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validateCode(r.OTP); err != nil {
		return err
	}
	if r.NewPassword == "" {
		return invalid("new_password", "new password is required")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "email is required")
	}
	if !emailRegex.MatchString(email) {
		return invalid("email", "invalid email format")
	}
	return nil
}

func validateCode(code string) error {
	if code == "" {
		return invalid("otp", "otp is required")
	}
	return nil
}
