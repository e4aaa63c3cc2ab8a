package handlers

import (
	"errors"
	"net/http"

	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
)

// Signup handles POST /signup
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.authService.Signup(r.Context(), &req)
	switch {
	case err == nil:
		writeMessage(w, "Beautiful OTP email sent successfully!")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "User already exists", "USER_EXISTS")
	case errors.Is(err, domain.ErrNotificationFailed):
		writeError(w, http.StatusInternalServerError, "Failed to send OTP email", "NOTIFICATION_FAILED")
	case writeCommonError(w, r, err):
	default:
		writeInternal(w, r, err)
	}
}

// VerifyOTP handles POST /verify_otp
func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if !decode(w, r, &req) {
		return
	}

	_, err := h.authService.VerifySignup(r.Context(), &req)
	switch {
	case err == nil:
		writeMessage(w, "Account verified successfully and welcome email sent!")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "User already exists", "USER_EXISTS")
	case writeOTPError(w, r, err, "No OTP found for this email"):
	default:
		writeInternal(w, r, err)
	}
}

// Login handles POST /login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Incorrect password", "INVALID_CREDENTIALS")
	case writeCommonError(w, r, err):
	default:
		writeInternal(w, r, err)
	}
}

// ForgotPassword handles POST /forgot_password
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.authService.ForgotPassword(r.Context(), &req)
	switch {
	case err == nil:
		writeMessage(w, "Password reset OTP sent successfully!")
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "No user found with this email", "USER_NOT_FOUND")
	case errors.Is(err, domain.ErrNotificationFailed):
		writeError(w, http.StatusInternalServerError, "Failed to send reset OTP", "NOTIFICATION_FAILED")
	case writeCommonError(w, r, err):
	default:
		writeInternal(w, r, err)
	}
}

// ResetPassword handles POST /reset_password
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.authService.ResetPassword(r.Context(), &req)
	switch {
	case err == nil:
		writeMessage(w, "Password reset successful!")
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "No user found with this email", "USER_NOT_FOUND")
	case writeOTPError(w, r, err, "No OTP found for reset"):
	default:
		writeInternal(w, r, err)
	}
}
