package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func requestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "introspection request" {
			return entry
		}
	}
	t.Fatal("no introspection request log entry")
	return observer.LoggedEntry{}
}

func TestGinMiddleware_LogsCompletedRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/v1/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/state", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	entry := requestLog(t, recorded)
	fields := make(map[string]zapcore.Field)
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	assert.Equal(t, "GET", fields["method"].String)
	assert.Equal(t, "/v1/state", fields["path"].String)
	assert.Equal(t, int64(http.StatusOK), fields["status"].Integer)
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.NotContains(t, fields, "query")
}

func TestGinMiddleware_LevelTracksStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{name: "success logs at info", status: http.StatusOK, level: zapcore.InfoLevel},
		{name: "client error logs at warn", status: http.StatusNotFound, level: zapcore.WarnLevel},
		{name: "server error logs at error", status: http.StatusInternalServerError, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.InfoLevel)
			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/probe", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.level, requestLog(t, recorded).Level)
		})
	}
}

func TestGinMiddleware_IncludesQueryWhenPresent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/v1/state/cart", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/state/cart?pretty=1", nil)
	router.ServeHTTP(w, req)

	entry := requestLog(t, recorded)
	found := false
	for _, f := range entry.Context {
		if f.Key == "query" {
			found = true
			assert.Equal(t, "pretty=1", f.String)
		}
	}
	assert.True(t, found, "query field should be logged")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("snapshot decode blew up")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "panic recovered", logs[0].Message)
}
