package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/api/messages/:id/trace", normalizePath("/api/messages/abc/trace"))
	assert.Equal(t, "/api/messages/:id/drilldown", normalizePath("/api/messages/1/drilldown"))
	assert.Equal(t, "/api/biomarkers/:key", normalizePath("/api/biomarkers/weight"))
	assert.Equal(t, "/api/journey", normalizePath("/api/journey"))
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "'unsafe-inline'")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journey", nil))
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
}

func TestValidateRequest(t *testing.T) {
	h := ValidateRequest(okHandler())

	cases := []struct {
		target string
		status int
	}{
		{"/api/search?q=blood+pressure", http.StatusOK},
		{"/api/search?q=wait...", http.StatusOK},
		{"/api/search?q=%3Cscript%3Ealert(1)", http.StatusBadRequest},
		{"/api/..%2f/etc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
		assert.Equal(t, tc.status, rec.Code, tc.target)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{})
	h := rl.Middleware(okHandler())

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestWhitelist(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{
		Whitelist: []string{"10.0.0.0/8", "192.168.1.5", "bad/cidr", "nope"},
	})
	assert.True(t, rl.isWhitelisted("10.1.2.3"))
	assert.True(t, rl.isWhitelisted("192.168.1.5"))
	assert.False(t, rl.isWhitelisted("192.168.1.6"))
}

func TestRuleFor(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{})

	rule := rl.ruleFor(httptest.NewRequest(http.MethodPost, "/api/generate", nil))
	if assert.NotNil(t, rule) {
		assert.Equal(t, "generate", rule.Name)
		assert.Equal(t, 5, rule.Requests)
	}
	assert.NotNil(t, rl.ruleFor(httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)))
	assert.Nil(t, rl.ruleFor(httptest.NewRequest(http.MethodGet, "/api/generate", nil)))
	assert.Nil(t, rl.ruleFor(httptest.NewRequest(http.MethodGet, "/api/journey", nil)))
}

func TestParseNet(t *testing.T) {
	n, err := parseNet("192.168.1.5")
	if assert.NoError(t, err) {
		assert.Equal(t, "192.168.1.5/32", n.String())
	}
	n, err = parseNet("::1")
	if assert.NoError(t, err) {
		assert.Equal(t, "::1/128", n.String())
	}
	_, err = parseNet("nope")
	assert.Error(t, err)
}

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	assert.Equal(t, "1.2.3.4", RealIP(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "9.9.9.9:1234"
	assert.Equal(t, "9.9.9.9", RealIP(r))
}
