package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type limitedRequest struct {
	remoteAddr string
	forwarded  string
	want       int
}

func newLimitedRouter(t *testing.T, perMinute int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limits := NewRateLimiter(perMinute)
	t.Cleanup(limits.Stop)

	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.POST("/login", RateLimit(limits, func(ctx *gin.Context) {
		ctx.String(http.StatusTooManyRequests, "slow down")
	}), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	return r
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name     string
		requests []limitedRequest
	}{
		{
			name: "burst then limited",
			requests: []limitedRequest{
				{remoteAddr: "192.0.2.1:1000", want: http.StatusOK},
				{remoteAddr: "192.0.2.1:1001", want: http.StatusOK},
				{remoteAddr: "192.0.2.1:1002", want: http.StatusTooManyRequests},
			},
		},
		{
			name: "buckets are per ip",
			requests: []limitedRequest{
				{remoteAddr: "192.0.2.1:1000", want: http.StatusOK},
				{remoteAddr: "192.0.2.1:1000", want: http.StatusOK},
				{remoteAddr: "192.0.2.1:1000", want: http.StatusTooManyRequests},
				{remoteAddr: "192.0.2.2:1000", want: http.StatusOK},
			},
		},
		{
			name: "rotating forwarded header does not reset the bucket",
			requests: []limitedRequest{
				{remoteAddr: "203.0.113.7:1000", forwarded: "198.51.100.1", want: http.StatusOK},
				{remoteAddr: "203.0.113.7:1000", forwarded: "198.51.100.2", want: http.StatusOK},
				{remoteAddr: "203.0.113.7:1000", forwarded: "198.51.100.3", want: http.StatusTooManyRequests},
				{remoteAddr: "203.0.113.7:1000", forwarded: "198.51.100.4", want: http.StatusTooManyRequests},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newLimitedRouter(t, 2)

			for i, lr := range tt.requests {
				req := httptest.NewRequest(http.MethodPost, "/login", nil)
				req.RemoteAddr = lr.remoteAddr
				if lr.forwarded != "" {
					req.Header.Set("X-Forwarded-For", lr.forwarded)
				}

				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
				assert.Equal(t, lr.want, w.Code, "request %d", i)
			}
		})
	}
}

func TestRateLimiter_LimitedRequestSkipsHandler(t *testing.T) {
	r := newLimitedRouter(t, 1)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, "ok", first.Body.String())

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "slow down", second.Body.String())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(5)
	t.Cleanup(rl.Stop)

	require.True(t, rl.Allow("192.0.2.1"))
	require.True(t, rl.Allow("192.0.2.2"))

	rl.mu.Lock()
	rl.limiters["192.0.2.1"].lastAccess = time.Now().Add(-2 * time.Hour)
	rl.mu.Unlock()

	rl.cleanup(time.Now().Add(-time.Hour))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.limiters, "192.0.2.1")
	assert.Contains(t, rl.limiters, "192.0.2.2")
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1)

	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}
