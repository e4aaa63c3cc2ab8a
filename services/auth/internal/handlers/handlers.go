package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/jobiq-care/pkg/logger"
	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
	"github.com/diagnosis/jobiq-care/services/auth/internal/service"
)

type Handlers struct {
	authService service.AuthService
}

func New(authService service.AuthService) *Handlers {
	return &Handlers{authService: authService}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	response := map[string]string{
		"error": message,
		"code":  code,
	}
	writeJSON(w, statusCode, response)
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return false
	}
	return true
}

// writeOTPError maps ledger failures, which share wording across the
// verify and reset endpoints.
func writeOTPError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) bool {
	switch {
	case errors.Is(err, domain.ErrOTPNotFound):
		writeError(w, http.StatusBadRequest, notFoundMsg, "OTP_NOT_FOUND")
	case errors.Is(err, domain.ErrMismatch):
		writeError(w, http.StatusBadRequest, "OTP was issued for a different purpose", "OTP_PURPOSE_MISMATCH")
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusBadRequest, "OTP expired", "OTP_EXPIRED")
	case errors.Is(err, domain.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, "Invalid OTP", "INVALID_OTP")
	default:
		return writeCommonError(w, r, err)
	}
	return true
}

// writeCommonError handles validation and store failures. It reports
// false when err is not one it knows.
func writeCommonError(w http.ResponseWriter, r *http.Request, err error) bool {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message, "INVALID_INPUT")
	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.ErrorContext(r.Context(), "Store unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable", "STORE_UNAVAILABLE")
	default:
		return false
	}
	return true
}

func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	logger.ErrorContext(r.Context(), "Unhandled error", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
}
