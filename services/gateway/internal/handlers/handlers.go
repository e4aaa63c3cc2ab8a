package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/diagnosis/jobiq-care/pkg/logger"
	"github.com/diagnosis/jobiq-care/services/gateway/internal/proxy"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	authProxy    *proxy.ServiceProxy
	advisorProxy *proxy.ServiceProxy
	frontendDir  string
}

func New(authProxy, advisorProxy *proxy.ServiceProxy, frontendDir string) *Handlers {
	return &Handlers{
		authProxy:    authProxy,
		advisorProxy: advisorProxy,
		frontendDir:  frontendDir,
	}
}

func (h *Handlers) Mount(r chi.Router) {
	r.Get("/", h.LoginPage)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.frontendDir))))

	for _, path := range []string{"/signup", "/verify_otp", "/login", "/forgot_password", "/reset_password"} {
		r.Post(path, h.authProxy.Forward)
	}
	for _, path := range []string{"/analyze_cv", "/generate_questions", "/generate_result"} {
		r.Post(path, h.advisorProxy.Forward)
	}
}

// LoginPage serves the frontend entry point.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.frontendDir, "login.html")
	if _, err := os.Stat(path); err != nil {
		logger.WarnContext(r.Context(), "Login page missing", "path", path, "error", err)
		writeError(w, http.StatusNotFound, "login.html not found", "NOT_FOUND")
		return
	}
	http.ServeFile(w, r, path)
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
