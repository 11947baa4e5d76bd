package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"xuni/internal/shared/utils/response"
	"xuni/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the limiter to every request. Rejected requests get a
// failure envelope carrying the limit Result.
func Middleware(limiter Limiter, apiBasePath string, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath(), apiBasePath)

		result, err := limiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			l.LogHTTPError(c, err, http.StatusInternalServerError)
			response.AbortWith(c, http.StatusInternalServerError,
				response.Failure[any]().WithMessage("rate limit check failed"))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			l.LogRateLimitExceeded(clientIP, c.Request.URL.Path)
			response.AbortWith(c, http.StatusTooManyRequests,
				response.Failure[Result]().WithMessage("rate limit exceeded").WithData(*result))
			return
		}

		c.Next()
	}
}

func getRateLimitType(path, apiBasePath string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"):
		return RateLimitTypeHealth
	case apiBasePath != "" && strings.HasPrefix(path, apiBasePath):
		return RateLimitTypeAPI
	default:
		return RateLimitTypeDefault
	}
}

// getClientIP extracts real client IP
func getClientIP(c *gin.Context) string {
	if xForwardedFor := c.GetHeader("X-Forwarded-For"); xForwardedFor != "" {
		ip := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := c.GetHeader("X-Real-IP"); xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
