package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newCORSHandler(t *testing.T, origins ...string) http.Handler {
	t.Helper()
	policy, err := newCORSPolicy(CORSConfig{AllowedOrigins: origins})
	if err != nil {
		t.Fatalf("build policy: %v", err)
	}
	return corsMiddleware(policy, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSMiddlewareAllowsConfiguredOrigin(t *testing.T) {
	handler := newCORSHandler(t, "https://app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}

func TestCORSMiddlewareHandlesPreflight(t *testing.T) {
	handler := newCORSHandler(t, "https://app.example.com")

	req := httptest.NewRequest(http.MethodOptions, "/files", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization, X-Token" {
		t.Fatalf("unexpected allow-headers %q", got)
	}
}

func TestCORSMiddlewareBlocksUnknownOrigin(t *testing.T) {
	handler := newCORSHandler(t, "https://app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCORSMiddlewareAllowsSameOriginByDefault(t *testing.T) {
	handler := newCORSHandler(t)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:5000/files", nil)
	req.Host = "localhost:5000"
	req.Header.Set("Origin", "http://localhost:5000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for same-origin request, got %d", rec.Code)
	}
}

func TestNewCORSPolicyRejectsMalformedOrigin(t *testing.T) {
	if _, err := newCORSPolicy(CORSConfig{AllowedOrigins: []string{"not a url"}}); err == nil {
		t.Fatal("expected an error for a malformed origin")
	}
}
