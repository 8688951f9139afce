package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubRateLimitStore struct {
	counts map[string]int64
	limit  int64
}

func (s *stubRateLimitStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[scope]++
	s.limit = limit
	return s.counts[scope] <= limit, s.counts[scope], nil
}

func loginAttempt(handler http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"operator@alpha.gr","password":"x"}`))
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRateLimitBlocksAfterLimit(t *testing.T) {
	store := &stubRateLimitStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		if rec := loginAttempt(handler, "10.0.0.9"); rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: status %d, want 204", i+1, rec.Code)
		}
	}
	if rec := loginAttempt(handler, "10.0.0.9"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt: status %d, want 429", rec.Code)
	}
}

func TestAuthRateLimitScopesPerAddress(t *testing.T) {
	store := &stubRateLimitStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	loginAttempt(handler, "10.0.0.1")
	if rec := loginAttempt(handler, "10.0.0.2"); rec.Code != http.StatusNoContent {
		t.Fatalf("fresh address: status %d, want 204", rec.Code)
	}

	if _, ok := store.counts["login:ip:10.0.0.1"]; !ok {
		t.Fatalf("counter scopes %v, want login:ip:10.0.0.1", store.counts)
	}
}

func TestAuthRateLimitHashesEmailScope(t *testing.T) {
	store := &stubRateLimitStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	loginAttempt(handler, "10.0.0.3")
	for scope := range store.counts {
		if !strings.HasPrefix(scope, "login:email:") {
			t.Fatalf("scope %q, want login:email: prefix", scope)
		}
		if strings.Contains(scope, "@") {
			t.Fatalf("scope %q leaks the raw address", scope)
		}
	}
	if len(store.counts) != 1 {
		t.Fatalf("counters %v, want one email scope", store.counts)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	store := &stubRateLimitStore{}
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	if rec := loginAttempt(handler, "10.0.0.4"); rec.Code != http.StatusNoContent {
		t.Fatalf("status %d, want 204 with limiter disabled", rec.Code)
	}
	if len(store.counts) != 0 {
		t.Fatalf("disabled policy still counted: %v", store.counts)
	}
}
