// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRateLimiterFallsBackToLocalLimits(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit:         PerWindow(1, 1, time.Minute),
		LocalFallback: true,
		BypassFunc: func(r *http.Request) bool {
			return r.URL.Path == "/v1/billing/webhook"
		},
	})
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("/v1/campaigns/c1/click"))

	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/c1/click", nil)
	req.RemoteAddr = "203.0.113.7:5000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")

	for range 3 {
		assert.Equal(t, http.StatusOK, send("/v1/billing/webhook"))
	}
}

func TestRateLimiterWithoutFallbackRefuses(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit: PerWindow(10, 10, time.Minute),
	})
	called := false
	handler := rl.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/providers", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, called)
}

func TestKeyByUserAndEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/v1/providers/7f1c2a9e-1b2c-4d3e-8f90-123456789abc/reviews/me", nil)
	req = req.WithContext(WithIdentity(req.Context(), "u1", "user"))

	assert.Equal(t, "chaama:rl:user:u1:PUT:/v1/providers/{id}/reviews/me", KeyByUserAndEndpoint(req))

	anon := httptest.NewRequest(http.MethodPost, "/v1/billing/confirm-session", nil)
	anon.RemoteAddr = "198.51.100.4:443"
	assert.Equal(t, "chaama:rl:ip:198.51.100.4:POST:/v1/billing/confirm-session", KeyByUserAndEndpoint(anon))
}

func TestKeyByUserAndEndpointUsesRoutePattern(t *testing.T) {
	var key string
	r := chi.NewRouter()
	r.With(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key = KeyByUserAndEndpoint(r)
			next.ServeHTTP(w, r)
		})
	}).Put("/providers/{providerID}/reviews/me", func(http.ResponseWriter, *http.Request) {})

	req := httptest.NewRequest(http.MethodPut, "/providers/barbearia-centro/reviews/me", nil)
	req = req.WithContext(WithIdentity(req.Context(), "u1", "user"))
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "chaama:rl:user:u1:PUT:/providers/{providerID}/reviews/me", key)
}
