package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"xuni/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLimiter struct {
	result *Result
	err    error
	seen   []RateLimitType
	ips    []string
}

func (s *stubLimiter) IsAllowed(_ context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	s.seen = append(s.seen, limitType)
	s.ips = append(s.ips, clientIP)
	return s.result, s.err
}

func newRouter(l Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(l, "/api/v1", logger.NewFromZap(zap.NewNop())))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/echo", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/other", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestMiddlewareAllows(t *testing.T) {
	l := &stubLimiter{result: &Result{Allowed: true, Limit: 10, Remaining: 9, ResetTime: 1700000000}}
	r := newRouter(l)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1700000000", w.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, []RateLimitType{RateLimitTypeAPI}, l.seen)
}

func TestMiddlewareRejectsWithEnvelope(t *testing.T) {
	l := &stubLimiter{result: &Result{Allowed: false, Limit: 2, Remaining: 0, ResetTime: 42}}
	r := newRouter(l)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"code":-1,"message":"rate limit exceeded",
		"data":{"allowed":false,"limit":2,"remaining":0,"reset_time":42}}`, w.Body.String())
	assert.Equal(t, []RateLimitType{RateLimitTypeDefault}, l.seen)
}

func TestMiddlewareLimiterError(t *testing.T) {
	r := newRouter(&stubLimiter{err: errors.New("redis down")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":-1,"message":"rate limit check failed","data":null}`, w.Body.String())
}

func TestClientIPFromForwardedHeader(t *testing.T) {
	l := &stubLimiter{result: &Result{Allowed: true}}
	r := newRouter(l)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"203.0.113.7"}, l.ips)
	assert.Equal(t, []RateLimitType{RateLimitTypeHealth}, l.seen)
}

func TestDisabledLimiterAllowsWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, &Config{Enabled: false, APIRequests: 7})

	res, err := rl.IsAllowed(context.Background(), "1.2.3.4", RateLimitTypeAPI)

	assert.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 7, res.Limit)
}

func TestWhitelistedIPBypassesRedis(t *testing.T) {
	rl := NewRateLimiter(nil, &Config{Enabled: true, DefaultRequests: 3, WhitelistedIPs: []string{"10.0.0.9"}})

	res, err := rl.IsAllowed(context.Background(), "10.0.0.9", RateLimitTypeDefault)

	assert.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 3, res.Remaining)
}
