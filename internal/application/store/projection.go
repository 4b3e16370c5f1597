package store

import (
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/snapshot"
)

// The projection below is the allow-list boundary between live state
// and the persisted document. Adding a field here is a schema
// decision: bump snapshot.CurrentVersion when a field changes meaning.

// projectLocked builds the durable projection. The caller holds the
// container lock; every slice is cloned so the snapshot shares no
// memory with live state.
func (c *Container) projectLocked() *snapshot.Snapshot {
	snap := snapshot.New()

	auth := c.auth.Clone()
	snap.Identity = auth.Identity
	snap.Token = auth.Token
	snap.AuthStatus = auth.Status

	cart := c.cart.Clone()
	snap.Cart = snapshot.Cart{
		Items:    cart.Items,
		Subtotal: cart.Subtotal,
		Tax:      cart.Tax,
		Shipping: cart.Shipping,
		Total:    cart.Total,
	}

	wishlist := c.wishlist.Clone()
	snap.Wishlist = snapshot.Wishlist{Items: wishlist.Items}

	feed := c.notifications.Clone()
	snap.Notifications = snapshot.Notifications{
		Items:       feed.Items,
		UnreadCount: feed.UnreadCount,
	}

	recs := c.recommendations.Clone()
	snap.Recommendations = snapshot.Recommendations{
		Items:       recs.Items,
		GeneratedAt: recs.GeneratedAt,
	}

	analytics := c.analytics.Clone()
	snap.Analytics = snapshot.Analytics{
		Revenue:       analytics.Revenue,
		OrderCount:    analytics.OrderCount,
		PendingOrders: analytics.PendingOrders,
		LowStockCount: analytics.LowStockCount,
		NewUsers:      analytics.NewUsers,
		TopProducts:   analytics.TopProducts,
		RefreshedAt:   analytics.RefreshedAt,
	}

	search := c.search.Clone()
	snap.Search = snapshot.Search{
		Query:      search.Query,
		CategoryID: search.CategoryID,
		Page:       search.Page,
		Results:    search.Results,
		TotalHits:  search.TotalHits,
	}

	return snap
}

// Restore folds a loaded snapshot into the container in one atomic
// commit. Transients come up clean: busy flags false, errors empty,
// unread count recomputed from the feed. A snapshot without a usable
// credential restores the data slices but leaves the session
// anonymous.
func (c *Container) Restore(snap *snapshot.Snapshot) {
	if snap == nil {
		return
	}
	snap.Normalize()

	c.commit(func() {
		if snap.Authenticated() {
			auth := state.AuthState{
				Token:  snap.Token,
				Status: state.AuthStatusAuthenticated,
			}
			if snap.Identity != nil {
				id := *snap.Identity
				auth.Identity = &id
			}
			c.auth = auth
		} else {
			c.auth = state.EmptyAuthState()
		}

		c.cart = state.CartState{
			Items:    snap.Cart.Items,
			Subtotal: snap.Cart.Subtotal,
			Tax:      snap.Cart.Tax,
			Shipping: snap.Cart.Shipping,
			Total:    snap.Cart.Total,
		}
		c.wishlist = state.WishlistState{Items: snap.Wishlist.Items}
		c.notifications = state.NotificationState{
			Items:       snap.Notifications.Items,
			UnreadCount: snap.Notifications.UnreadCount,
		}
		c.recommendations = state.RecommendationState{
			Items:       snap.Recommendations.Items,
			GeneratedAt: snap.Recommendations.GeneratedAt,
		}
		c.analytics = state.AnalyticsState{
			Revenue:       snap.Analytics.Revenue,
			OrderCount:    snap.Analytics.OrderCount,
			PendingOrders: snap.Analytics.PendingOrders,
			LowStockCount: snap.Analytics.LowStockCount,
			NewUsers:      snap.Analytics.NewUsers,
			TopProducts:   snap.Analytics.TopProducts,
			RefreshedAt:   snap.Analytics.RefreshedAt,
		}
		c.search = state.SearchState{
			Query:      snap.Search.Query,
			CategoryID: snap.Search.CategoryID,
			Page:       snap.Search.Page,
			Results:    snap.Search.Results,
			TotalHits:  snap.Search.TotalHits,
		}
	},
		state.SliceAuth,
		state.SliceCart,
		state.SliceWishlist,
		state.SliceNotifications,
		state.SliceRecommendations,
		state.SliceAnalytics,
		state.SliceSearch,
	)
}
