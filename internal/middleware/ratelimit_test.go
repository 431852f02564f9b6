// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLocalRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:   PerMinute(1, 2),
		KeyFunc: KeyByRoute("login"),
	})
	h := rl.Handler(ok200)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)

		if w.Header().Get("X-RateLimit-Limit") != "1" {
			t.Fatalf("missing rate limit headers: %v", w.Header())
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("burst should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %v", codes)
	}
}

func TestLocalRateLimiterKeysByClient(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Limit: PerMinute(1, 1)})
	h := rl.Handler(ok200)

	for _, addr := range []string{"198.51.100.1:1", "198.51.100.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", addr, w.Code)
		}
	}
}

func TestRateLimiterBypass(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:      PerMinute(1, 1),
		BypassFunc: func(*http.Request) bool { return true },
	})
	h := rl.Handler(ok200)

	for range 5 {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("bypassed request limited: %d", w.Code)
		}
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/api/forms/3f2504e0-4f89-11d3-9a0c-0305e82c3301/responses", "/api/forms/{id}/responses"},
		{"/api/submissions/form/65a1b2c3d4e5f6a7b8c9d0e1", "/api/submissions/form/{id}"},
		{"/api/auth/users/42", "/api/auth/users/{id}"},
		{"/api/submissions", "/api/submissions"},
	}

	for _, tc := range tests {
		if got := normalizeEndpoint(tc.in); got != tc.want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSkipPaths(t *testing.T) {
	skip := SkipPaths("/healthz", "/readyz")

	if !skip(httptest.NewRequest(http.MethodGet, "/readyz", nil)) {
		t.Fatal("/readyz should bypass")
	}
	if skip(httptest.NewRequest(http.MethodGet, "/api/forms", nil)) {
		t.Fatal("/api/forms should not bypass")
	}
}

func TestLocalLimiterRejectsZeroRate(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Limit: PerMinute(0, 1)})
	w := httptest.NewRecorder()
	rl.Handler(ok200).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without fail-open, got %d", w.Code)
	}
}
