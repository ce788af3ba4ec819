package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeRateLimiter struct {
	counts map[string]int64
}

func newFakeRateLimiter() *fakeRateLimiter {
	return &fakeRateLimiter{counts: make(map[string]int64)}
}

func (f *fakeRateLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	limiter := newFakeRateLimiter()
	handler := AuthRateLimit(policy, limiter, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
		req.RemoteAddr = "198.51.100.7:1234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
	req.RemoteAddr = "198.51.100.7:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimitTracksIdentityAcrossIPs(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	limiter := newFakeRateLimiter()
	handler := AuthRateLimit(policy, limiter, nil)(okHandler())

	body := `{"identifier":"jezz","password":"x"}`

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.RemoteAddr = "198.51.100.1:1111"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("first attempt: expected 200 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.9:2222"
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for same identity from a new ip, got %d", resp.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := AuthRateLimit(policy, newFakeRateLimiter(), nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", resp.Code)
	}
}
