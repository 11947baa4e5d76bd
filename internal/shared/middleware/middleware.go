package middleware

import (
	"fmt"
	"net/http"
	"time"

	"xuni/internal/shared/utils/response"
	"xuni/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "request_id"

	maxRequestIDLength = 128
)

// RequestID reuses the caller's X-Request-ID or generates a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// validRequestID accepts any non-empty printable ASCII id up to maxRequestIDLength
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestLogger logs every request once it has been served
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}

// Recovery turns a panic into a 500 failure envelope
func Recovery(l *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.LogPanic(c, recovered)
		response.AbortWith(c, http.StatusInternalServerError,
			response.Failure[any]().WithMessage("internal server error"))
	})
}

// NoRoute answers unknown paths
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "route not found")
	}
}

// NoMethod answers known paths hit with an unsupported method
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed,
			fmt.Sprintf("method %s not allowed", c.Request.Method))
	}
}
