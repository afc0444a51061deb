package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, testLogger())
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d should pass", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"))

	// A different key has its own bucket
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond, testLogger())
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimitByPathMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RateLimitByPathMiddleware(
		[]PathRateLimit{
			{Path: "/request-otp", Rate: 1, Window: time.Minute},
		},
		100, time.Minute, testLogger(),
	)(next)

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "1.2.3.4:5678"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	// The tight path exhausts after one request
	assert.Equal(t, http.StatusOK, do("/request-otp"))
	assert.Equal(t, http.StatusTooManyRequests, do("/request-otp"))

	// Other paths still run on the default budget
	assert.Equal(t, http.StatusOK, do("/login-page"))
}

func TestRateLimitByPathMiddleware_ResponseEnvelope(t *testing.T) {
	handler := RateLimitByPathMiddleware(
		[]PathRateLimit{{Path: "/request-otp", Rate: 0, Window: time.Minute}},
		100, time.Minute, testLogger(),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/request-otp", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Too many requests. Please try again later."}`, w.Body.String())
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:   "remote addr only",
			remote: "1.2.3.4:5678",
			want:   "1.2.3.4:5678",
		},
		{
			name:    "x-forwarded-for single",
			headers: map[string]string{"X-Forwarded-For": "9.8.7.6"},
			remote:  "1.2.3.4:5678",
			want:    "9.8.7.6",
		},
		{
			name:    "x-forwarded-for chain takes first",
			headers: map[string]string{"X-Forwarded-For": "9.8.7.6, 10.0.0.1"},
			remote:  "1.2.3.4:5678",
			want:    "9.8.7.6",
		},
		{
			name:    "x-real-ip",
			headers: map[string]string{"X-Real-IP": "9.8.7.6"},
			remote:  "1.2.3.4:5678",
			want:    "9.8.7.6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
