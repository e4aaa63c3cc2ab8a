package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mw "github.com/diagnosis/jobiq-care/pkg/middleware"
	"github.com/diagnosis/jobiq-care/services/gateway/internal/proxy"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoBackend answers every request with the service name, path and body.
func echoBackend(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "https://backend.invalid")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"service":    name,
			"path":       r.URL.Path,
			"body":       string(body),
			"request_id": r.Header.Get("X-Request-ID"),
			"forwarded":  r.Header.Get("X-Gateway-Forwarded"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T, authURL, advisorURL, frontendDir string) *httptest.Server {
	t.Helper()
	h := New(
		proxy.NewServiceProxy("auth", authURL, 5*time.Second),
		proxy.NewServiceProxy("advisor", advisorURL, 5*time.Second),
		frontendDir,
	)
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	h.Mount(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestRoutesReachTheRightService(t *testing.T) {
	auth := echoBackend(t, "auth")
	advisor := echoBackend(t, "advisor")
	gw := newGateway(t, auth.URL, advisor.URL, t.TempDir())

	for path, want := range map[string]string{
		"/signup":             "auth",
		"/verify_otp":         "auth",
		"/login":              "auth",
		"/forgot_password":    "auth",
		"/reset_password":     "auth",
		"/analyze_cv":         "advisor",
		"/generate_questions": "advisor",
		"/generate_result":    "advisor",
	} {
		t.Run(path, func(t *testing.T) {
			resp, out := post(t, gw.URL+path, `{"k":"v"}`)
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Equal(t, want, out["service"])
			assert.Equal(t, path, out["path"])
			assert.Equal(t, `{"k":"v"}`, out["body"])
			assert.Equal(t, "true", out["forwarded"])
			assert.NotEmpty(t, out["request_id"])
			assert.Equal(t, resp.Header.Get("X-Request-ID"), out["request_id"])
			assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestUpstreamDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	gw := newGateway(t, deadURL, deadURL, t.TempDir())

	resp, out := post(t, gw.URL+"/login", `{}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", out["code"])
}

func TestLoginPage(t *testing.T) {
	dir := t.TempDir()
	gw := newGateway(t, "http://127.0.0.1:1", "http://127.0.0.1:1", dir)

	resp, err := http.Get(gw.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "login.html"), []byte("<h1>Login</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	resp, err = http.Get(gw.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Login")

	resp, err = http.Get(gw.URL + "/static/app.js")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "console.log(1)", string(body))
}

func TestBackendSeesEachClientIP(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, mw.ClientIP(r))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(backend.Close)

	h := New(
		proxy.NewServiceProxy("auth", backend.URL, 5*time.Second),
		proxy.NewServiceProxy("advisor", backend.URL, 5*time.Second),
		t.TempDir(),
	)
	r := chi.NewRouter()
	h.Mount(r)

	send := func(remoteAddr, forwardedFor string) {
		req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(`{}`))
		req.RemoteAddr = remoteAddr
		if forwardedFor != "" {
			req.Header.Set("X-Forwarded-For", forwardedFor)
			req.Header.Set("X-Real-IP", forwardedFor)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	send("203.0.113.1:40000", "")
	send("198.51.100.7:40001", "")
	send("198.51.100.7:40002", "1.2.3.4")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"203.0.113.1", "198.51.100.7", "198.51.100.7"}, seen)
}
