package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"xuni/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newEngine(l *logger.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(RequestID(), RequestLogger(l), Recovery(l))
	r.NoRoute(NoRoute())
	r.NoMethod(NoMethod())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	r := newEngine(logger.NewFromZap(zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	id := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestIDReused(t *testing.T) {
	r := newEngine(logger.NewFromZap(zap.NewNop()))
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(HeaderRequestID))
}

func TestRequestIDAcceptsForeignFormats(t *testing.T) {
	r := newEngine(logger.NewFromZap(zap.NewNop()))

	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{"uuid", uuid.NewString(), true},
		{"trace id", "trace-abc-123", true},
		{"at limit", strings.Repeat("a", 128), true},
		{"too long", strings.Repeat("a", 129), false},
		{"whitespace", "has space", false},
		{"control char", "id\x01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			req.Header.Set(HeaderRequestID, tt.incoming)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(HeaderRequestID)
			if tt.reused {
				assert.Equal(t, tt.incoming, got)
				return
			}
			assert.NotEqual(t, tt.incoming, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestRecoveryRendersFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngine(logger.NewFromZap(zap.New(core)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":-1,"message":"internal server error","data":null}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("Panic Recovered").Len())
	assert.Equal(t, 1, logs.FilterMessage("HTTP Request").Len())
}

func TestNoRouteAndNoMethod(t *testing.T) {
	r := newEngine(logger.NewFromZap(zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":-1,"message":"route not found","data":null}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/ok", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"code":-1,"message":"method DELETE not allowed","data":null}`, w.Body.String())
}
