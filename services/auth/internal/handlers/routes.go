package handlers

import (
	mw "github.com/diagnosis/jobiq-care/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

// Mount registers the auth endpoints. Code-issuing endpoints go through
// limiter when one is given.
func (h *Handlers) Mount(r chi.Router, limiter mw.Limiter) {
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(mw.RateLimit(limiter, "otp"))
		}
		r.Post("/signup", h.Signup)
		r.Post("/forgot_password", h.ForgotPassword)
	})

	r.Post("/verify_otp", h.VerifyOTP)
	r.Post("/login", h.Login)
	r.Post("/reset_password", h.ResetPassword)
}
