// Package handler serves the read-only introspection routes. The
// embedding UI drives every action through the runtime's Go API, so
// nothing in this package writes.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/shared"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

// redactedToken stands in for the bearer token in introspection
// output. The endpoint binds loopback, but its responses end up in
// support bundles.
const redactedToken = "[REDACTED]"

// StateHandler exposes the container's slices to local tooling.
type StateHandler struct {
	container *store.Container
}

// NewStateHandler creates a state handler over the given container.
func NewStateHandler(container *store.Container) *StateHandler {
	return &StateHandler{container: container}
}

// RegisterRoutes mounts the state routes on the versioned group.
func (h *StateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/state", h.GetState)
	rg.GET("/state/:slice", h.GetSlice)
}

// stateDocument is the full-snapshot response, one field per slice.
type stateDocument struct {
	Auth            state.AuthState           `json:"auth"`
	Cart            state.CartState           `json:"cart"`
	Wishlist        state.WishlistState       `json:"wishlist"`
	Notifications   state.NotificationState   `json:"notifications"`
	Recommendations state.RecommendationState `json:"recommendations"`
	Analytics       state.AnalyticsState      `json:"analytics"`
	Search          state.SearchState         `json:"search"`
	Channel         state.ChannelState        `json:"channel"`
	Global          state.GlobalState         `json:"global"`
}

// GetState returns every slice in a single document.
func (h *StateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, stateDocument{
		Auth:            h.redactedAuth(),
		Cart:            h.container.Cart(),
		Wishlist:        h.container.Wishlist(),
		Notifications:   h.container.Notifications(),
		Recommendations: h.container.Recommendations(),
		Analytics:       h.container.Analytics(),
		Search:          h.container.Search(),
		Channel:         h.container.Channel(),
		Global:          h.container.Global(),
	})
}

// GetSlice returns one slice by name.
func (h *StateHandler) GetSlice(c *gin.Context) {
	name := c.Param("slice")
	switch state.Slice(name) {
	case state.SliceAuth:
		c.JSON(http.StatusOK, h.redactedAuth())
	case state.SliceCart:
		c.JSON(http.StatusOK, h.container.Cart())
	case state.SliceWishlist:
		c.JSON(http.StatusOK, h.container.Wishlist())
	case state.SliceNotifications:
		c.JSON(http.StatusOK, h.container.Notifications())
	case state.SliceRecommendations:
		c.JSON(http.StatusOK, h.container.Recommendations())
	case state.SliceAnalytics:
		c.JSON(http.StatusOK, h.container.Analytics())
	case state.SliceSearch:
		c.JSON(http.StatusOK, h.container.Search())
	case state.SliceChannel:
		c.JSON(http.StatusOK, h.container.Channel())
	case state.SliceGlobal:
		c.JSON(http.StatusOK, h.container.Global())
	default:
		c.JSON(http.StatusNotFound, shared.NewDomainError("UNKNOWN_SLICE", "No state slice named "+name))
	}
}

// redactedAuth masks the token before it leaves the process. The
// container accessor returns a copy, so mutating here is safe.
func (h *StateHandler) redactedAuth() state.AuthState {
	auth := h.container.Auth()
	if auth.Token != "" {
		auth.Token = redactedToken
	}
	return auth
}
