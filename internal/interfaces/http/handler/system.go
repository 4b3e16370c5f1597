package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

// SystemHandler answers the health probe.
type SystemHandler struct {
	container *store.Container
	version   string
	startTime time.Time
}

// NewSystemHandler creates a system handler. Uptime counts from here.
func NewSystemHandler(container *store.Container, version string) *SystemHandler {
	return &SystemHandler{
		container: container,
		version:   version,
		startTime: time.Now(),
	}
}

// healthReport is one probe's worth of liveness: the process plus the
// push channel it depends on.
type healthReport struct {
	Status        string              `json:"status"`
	Version       string              `json:"version"`
	GoVersion     string              `json:"go_version"`
	Uptime        string              `json:"uptime"`
	Channel       state.ChannelStatus `json:"channel"`
	Authenticated bool                `json:"authenticated"`
}

// Healthz reports process and channel status. Always 200: a runtime
// with a down channel is degraded, not dead.
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, healthReport{
		Status:        "ok",
		Version:       h.version,
		GoVersion:     runtime.Version(),
		Uptime:        time.Since(h.startTime).String(),
		Channel:       h.container.Channel().Status,
		Authenticated: h.container.Authenticated(),
	})
}
