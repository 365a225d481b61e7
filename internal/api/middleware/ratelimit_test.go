package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Limit(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)
	defer rl.Stop()

	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/claims", nil)
		req.RemoteAddr = ip + ":4321"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusCreated, post("10.0.0.1").Code)
	assert.Equal(t, http.StatusCreated, post("10.0.0.1").Code)

	limited := post("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, limited.Body.String())

	assert.Equal(t, http.StatusCreated, post("10.0.0.2").Code, "clients have separate budgets")
}

func TestClientIP_IgnoresHeadersWithoutTrustedProxy(t *testing.T) {
	require.NoError(t, SetTrustedProxies(nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	assert.Equal(t, "192.0.2.10", ClientIP(req))
}

func TestClientIP_BehindTrustedProxy(t *testing.T) {
	require.NoError(t, SetTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1"}))
	t.Cleanup(func() { _ = SetTrustedProxies(nil) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ClientIP(req))

	// a client supplied first hop is not trusted over the last untrusted one
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 203.0.113.5, 192.168.1.1")
	assert.Equal(t, "203.0.113.5", ClientIP(req))

	req.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", ClientIP(req), "headers from an untrusted peer are ignored")
}

func TestSetTrustedProxies_Invalid(t *testing.T) {
	assert.Error(t, SetTrustedProxies([]string{"not-an-ip"}))
	assert.Error(t, SetTrustedProxies([]string{"10.0.0.0/99"}))
}

func TestRateLimiter_SpoofedForwardedFor(t *testing.T) {
	require.NoError(t, SetTrustedProxies(nil))
	rl := NewRateLimiter(1, 1, nil)
	defer rl.Stop()

	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/feedback", nil)
		req.RemoteAddr = "192.0.2.50:4000"
		req.Header.Set("X-Forwarded-For", spoofed)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
