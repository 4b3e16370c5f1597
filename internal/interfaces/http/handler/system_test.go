package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler(store.New(nil), "dev")
	require.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	container := seededContainer()
	container.SetChannelStatus(state.ChannelStatusConnected, "")

	engine := gin.New()
	engine.GET("/healthz", NewSystemHandler(container, "1.4.0").Healthz)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.4.0", body["version"])
	assert.Equal(t, "connected", body["channel"])
	assert.Equal(t, true, body["authenticated"])
	assert.NotEmpty(t, body["go_version"])
	assert.NotEmpty(t, body["uptime"])
}

func TestSystemHandler_Healthz_DisconnectedStaysHealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	container := store.New(nil)
	container.SetChannelStatus(state.ChannelStatusDisconnected, "dial tcp: connection refused")

	engine := gin.New()
	engine.GET("/healthz", NewSystemHandler(container, "dev").Healthz)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "a down channel is degraded, not dead")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "disconnected", body["channel"])
	assert.Equal(t, false, body["authenticated"])
}
