package proxy

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/jobiq-care/pkg/logger"
)

// ServiceProxy forwards requests to one backend service.
type ServiceProxy struct {
	name    string
	baseURL string
	client  *http.Client
}

func NewServiceProxy(name, baseURL string, timeout time.Duration) *ServiceProxy {
	return &ServiceProxy{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *ServiceProxy) Name() string { return p.name }

// ProxyRequest sends one request to the backend. Client-supplied forwarding
// headers are dropped; clientIP, when set, is the only X-Forwarded-For and
// X-Real-IP value the backend sees.
func (p *ServiceProxy) ProxyRequest(ctx context.Context, method, path string, body io.Reader, headers http.Header, clientIP string) (*http.Response, error) {
	url := p.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range headers {
		if !shouldCopyHeader(key) || isForwardingHeader(key) {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
		req.Header.Set("X-Real-IP", clientIP)
	}

	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	req.Header.Set("X-Gateway-Forwarded", "true")

	logger.DebugContext(ctx, "Proxying request",
		"service", p.name,
		"method", method,
		"url", url,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}

	return resp, nil
}

// Forward proxies r to the same path on the backend and streams the reply
// back to w.
func (p *ServiceProxy) Forward(w http.ResponseWriter, r *http.Request) {
	resp, err := p.ProxyRequest(r.Context(), r.Method, r.URL.RequestURI(), r.Body, r.Header, remoteHost(r))
	if err != nil {
		logger.ErrorContext(r.Context(), "Service proxy error", "error", err, "path", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, `{"error":"%s service unavailable","code":"UPSTREAM_UNAVAILABLE"}`, p.name)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if !shouldCopyHeader(key) || isCORSHeader(key) {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.ErrorContext(r.Context(), "Failed to copy response body", "error", err)
	}
}

var hopHeaders = map[string]bool{
	"host":                true,
	"connection":          true,
	"upgrade":             true,
	"proxy-connection":    true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
	"keep-alive":          true,
	"content-length":      true,
}

func shouldCopyHeader(key string) bool {
	return !hopHeaders[strings.ToLower(key)]
}

func isForwardingHeader(key string) bool {
	switch strings.ToLower(key) {
	case "x-forwarded-for", "x-real-ip", "forwarded":
		return true
	}
	return false
}

func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// The gateway owns CORS; backend values would duplicate it.
func isCORSHeader(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), "access-control-")
}
