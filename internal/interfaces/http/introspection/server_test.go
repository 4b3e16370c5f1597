package introspection

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/config"
)

func TestNew_RequiresContainer(t *testing.T) {
	_, err := New(config.IntrospectionConfig{Addr: "127.0.0.1:0"}, "test", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container")
}

func TestServer_ServesAndShutsDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	container := store.New(nil)
	container.CompleteAuth(state.Identity{Name: "Dana Reyes", Role: state.RoleAdmin}, "tok-live")
	container.SetChannelStatus(state.ChannelStatusConnected, "")

	srv, err := New(config.IntrospectionConfig{Enabled: true, Addr: "127.0.0.1:0"}, "test", Options{
		Container: container,
		Version:   "0.0.0-test",
	})
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	require.NotEmpty(t, srv.Addr())

	client := &http.Client{Timeout: 2 * time.Second}
	defer client.CloseIdleConnections()

	resp, err := client.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "connected", health["channel"])

	resp, err = client.Get("http://" + srv.Addr() + "/v1/state/auth")
	require.NoError(t, err)
	var auth state.AuthState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	resp.Body.Close()
	assert.Equal(t, "[REDACTED]", auth.Token)
	require.NotNil(t, auth.Identity)
	assert.Equal(t, "Dana Reyes", auth.Identity.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	_, err = client.Get("http://" + srv.Addr() + "/healthz")
	assert.Error(t, err, "listener must be closed after shutdown")
}

func TestServer_StartRejectsTakenPort(t *testing.T) {
	gin.SetMode(gin.TestMode)

	container := store.New(nil)

	first, err := New(config.IntrospectionConfig{Addr: "127.0.0.1:0"}, "test", Options{Container: container})
	require.NoError(t, err)
	require.NoError(t, first.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = first.Shutdown(ctx)
	}()

	second, err := New(config.IntrospectionConfig{Addr: first.Addr()}, "test", Options{Container: container})
	require.NoError(t, err)
	assert.Error(t, second.Start(), "binding a taken port must fail at boot")
}
