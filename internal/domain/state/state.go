// Package state defines the client-side view of the platform: one
// value type per concern plus the pure merge functions that fold
// pushed or fetched payloads over it.
//
// Merges are full-replace at field granularity: a patch field that is
// present overwrites the current value whole, an absent field leaves
// it untouched, and nothing below that granularity is diffed. The
// server is authoritative; whichever write lands last wins.
package state

// Slice names one sub-state for subscription and introspection
// purposes.
type Slice string

const (
	SliceAuth            Slice = "auth"
	SliceCart            Slice = "cart"
	SliceWishlist        Slice = "wishlist"
	SliceNotifications   Slice = "notifications"
	SliceRecommendations Slice = "recommendations"
	SliceAnalytics       Slice = "analytics"
	SliceSearch          Slice = "search"
	SliceChannel         Slice = "channel"
	SliceGlobal          Slice = "global"
)

// Slices lists every slice name, in introspection display order.
func Slices() []Slice {
	return []Slice{
		SliceAuth,
		SliceCart,
		SliceWishlist,
		SliceNotifications,
		SliceRecommendations,
		SliceAnalytics,
		SliceSearch,
		SliceChannel,
		SliceGlobal,
	}
}

// ChannelStatus is the push-transport connection state. Transient;
// never persisted.
type ChannelStatus string

const (
	ChannelStatusDisconnected ChannelStatus = "disconnected"
	ChannelStatusConnecting   ChannelStatus = "connecting"
	ChannelStatusConnected    ChannelStatus = "connected"
)

// ChannelState mirrors the transport so views can show staleness.
type ChannelState struct {
	Status    ChannelStatus `json:"status"`
	LastError string        `json:"last_error"`
}

// EmptyChannelState returns the disconnected channel.
func EmptyChannelState() ChannelState {
	return ChannelState{Status: ChannelStatusDisconnected}
}

// GlobalState carries the app-wide error and busy flags.
type GlobalState struct {
	Error     string `json:"error"`
	IsLoading bool   `json:"is_loading"`
}
