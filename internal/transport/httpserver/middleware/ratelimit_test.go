package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiterSeparatesCallers(t *testing.T) {
	limiter := NewKeyedLimiter(1, 2)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	assert.True(t, limiter.Allow("ip:1.1.1.1"))
	assert.True(t, limiter.Allow("ip:1.1.1.1"))
	assert.False(t, limiter.Allow("ip:1.1.1.1"))
	assert.True(t, limiter.Allow("ip:2.2.2.2"))

	fixed = fixed.Add(time.Second)
	assert.True(t, limiter.Allow("ip:1.1.1.1"))
}

func TestKeyedLimiterEvictsIdleCallers(t *testing.T) {
	limiter := NewKeyedLimiter(1, 1)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	limiter.Allow("ip:1.1.1.1")
	fixed = fixed.Add(limiterIdleTTL + time.Minute)
	limiter.Allow("ip:2.2.2.2")

	assert.Len(t, limiter.limiters, 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewKeyedLimiter(0.5, 1)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(ctxUser string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/invites/accept", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		if ctxUser != "" {
			req = req.WithContext(WithUser(req.Context(), User{ID: ctxUser}))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("").Code)
	rec := call("")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, call("user-1").Code)
}
