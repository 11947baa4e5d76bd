package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewFromZap(zap.New(core)), logs
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, getLogLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, getLogLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, getLogLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, getLogLevel("bogus"))
}

func TestNewRespectsLevel(t *testing.T) {
	l := New("warn", gin.ReleaseMode)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestWithHelpersAddFields(t *testing.T) {
	l, logs := observed(zapcore.InfoLevel)

	l.WithRequestID("req-1").
		WithError(errors.New("boom")).
		WithFields(map[string]interface{}{"attempt": 2}).
		Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "boom", fields["error"])
	assert.EqualValues(t, 2, fields["attempt"])
}

func TestLogHTTPRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, logs := observed(zapcore.InfoLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
	c.Set("request_id", "abc")
	c.Status(http.StatusTeapot)

	l.LogHTTPRequest(c, 5*time.Millisecond)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP Request", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "/ping", fields["path"])
	assert.Equal(t, "x=1", fields["query"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.Equal(t, "abc", fields["request_id"])
}

func TestDefaultCanBeReplaced(t *testing.T) {
	prev := GetDefault()
	t.Cleanup(func() { SetDefault(prev) })

	l, _ := observed(zapcore.DebugLevel)
	SetDefault(l)
	assert.Same(t, l, GetDefault())
}
