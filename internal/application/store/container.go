// Package store holds the process-wide state container. Every
// mutation funnels through a reducer method that commits atomically
// under the container's lock; reads hand out copies, never interior
// pointers. Interleaving between concurrent writers (REST responses
// vs. push events) is decided solely by lock order — the platform is
// authoritative and whichever write lands last wins.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/snapshot"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

type subscriber struct {
	id int
	fn func(state.Slice)
}

// Container is the single source of truth for session state.
type Container struct {
	logger  *zap.Logger
	metrics *telemetry.RuntimeMetrics

	mu              sync.RWMutex
	auth            state.AuthState
	cart            state.CartState
	wishlist        state.WishlistState
	notifications   state.NotificationState
	recommendations state.RecommendationState
	analytics       state.AnalyticsState
	search          state.SearchState
	channel         state.ChannelState
	global          state.GlobalState
	commitSeq       uint64

	subMu  sync.Mutex
	nextID int
	subs   []subscriber

	snapStore   snapshot.Store
	snapBackend string
	persistMu   sync.Mutex
	persistSeq  uint64
}

// Option configures optional collaborators.
type Option func(*Container)

// WithSnapshotStore turns on the persistence hook: every commit
// projects the durable slices and saves them. The backend name labels
// save metrics and logs.
func WithSnapshotStore(s snapshot.Store, backend string) Option {
	return func(c *Container) {
		c.snapStore = s
		c.snapBackend = backend
	}
}

// WithMetrics attaches runtime metrics.
func WithMetrics(m *telemetry.RuntimeMetrics) Option {
	return func(c *Container) {
		c.metrics = m
	}
}

// New returns an empty container. A nil logger falls back to a no-op.
func New(logger *zap.Logger, opts ...Option) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{
		logger:  logger,
		auth:    state.EmptyAuthState(),
		channel: state.EmptyChannelState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ platform.TokenSource = (*Container)(nil)

// commit runs mutate under the write lock, then persists and notifies
// outside it. The projection is built while the lock is held so saves
// are ordered by commit, even though the I/O happens after release.
func (c *Container) commit(mutate func(), slices ...state.Slice) {
	c.mu.Lock()
	mutate()
	var snap *snapshot.Snapshot
	var seq uint64
	if c.snapStore != nil {
		c.commitSeq++
		seq = c.commitSeq
		snap = c.projectLocked()
	}
	c.mu.Unlock()

	if snap != nil {
		c.persist(seq, snap)
	}
	c.notify(slices...)
}

// persist saves one projection. A sequence guard drops projections
// that lost the race to a newer commit, so the stored document never
// moves backwards. Failures are logged; the mutation already
// committed and is never rolled back.
func (c *Container) persist(seq uint64, snap *snapshot.Snapshot) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	if seq <= c.persistSeq {
		return
	}
	start := time.Now()
	err := c.snapStore.Save(context.Background(), snap)
	outcome := telemetry.OutcomeOK
	if err != nil {
		outcome = telemetry.OutcomeError
		c.logger.Warn("snapshot save failed",
			zap.String("backend", c.snapBackend),
			zap.Error(err))
	} else {
		c.persistSeq = seq
	}
	c.metrics.RecordSnapshotSave(context.Background(), c.snapBackend, outcome, time.Since(start))
}

func (c *Container) notify(slices ...state.Slice) {
	c.subMu.Lock()
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()

	for _, s := range subs {
		for _, sl := range slices {
			s.fn(sl)
		}
	}
}

// Subscribe registers a listener called after every commit, outside
// the container lock, with the name of the slice that changed.
// Listeners run in registration order.
func (c *Container) Subscribe(fn func(state.Slice)) int {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.nextID++
	c.subs = append(c.subs, subscriber{id: c.nextID, fn: fn})
	return c.nextID
}

// Unsubscribe removes a listener. Unknown ids are a no-op.
func (c *Container) Unsubscribe(id int) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// ---- reads ----

// Auth returns a copy of the session slice.
func (c *Container) Auth() state.AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth.Clone()
}

// Token implements platform.TokenSource.
func (c *Container) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth.Token
}

// Authenticated reports whether a credential is currently held.
func (c *Container) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth.Authenticated()
}

// Cart returns a copy of the cart slice.
func (c *Container) Cart() state.CartState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.Clone()
}

// Wishlist returns a copy of the wishlist slice.
func (c *Container) Wishlist() state.WishlistState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.wishlist.Clone()
}

// Notifications returns a copy of the notification slice.
func (c *Container) Notifications() state.NotificationState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notifications.Clone()
}

// Recommendations returns a copy of the recommendation slice.
func (c *Container) Recommendations() state.RecommendationState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recommendations.Clone()
}

// Analytics returns a copy of the analytics slice.
func (c *Container) Analytics() state.AnalyticsState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.analytics.Clone()
}

// Search returns a copy of the search slice.
func (c *Container) Search() state.SearchState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search.Clone()
}

// Channel returns a copy of the channel slice.
func (c *Container) Channel() state.ChannelState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// Global returns a copy of the global slice.
func (c *Container) Global() state.GlobalState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.global
}

// ---- auth reducers ----

// BeginAuth marks the session slice busy and clears its error.
func (c *Container) BeginAuth() {
	c.commit(func() {
		c.auth.IsLoading = true
		c.auth.Error = ""
	}, state.SliceAuth)
}

// CompleteAuth installs a fresh credential.
func (c *Container) CompleteAuth(identity state.Identity, token string) {
	c.commit(func() {
		id := identity
		c.auth = state.AuthState{
			Identity: &id,
			Token:    token,
			Status:   state.AuthStatusAuthenticated,
		}
	}, state.SliceAuth)
}

// RefreshIdentity replaces the identity on an already-keyed session,
// the restore path after /me confirms a persisted token.
func (c *Container) RefreshIdentity(identity state.Identity) {
	c.commit(func() {
		id := identity
		c.auth.Identity = &id
		c.auth.Status = state.AuthStatusAuthenticated
		c.auth.IsLoading = false
		c.auth.Error = ""
	}, state.SliceAuth)
}

// FailAuth drops to anonymous and records the reason.
func (c *Container) FailAuth(msg string) {
	c.commit(func() {
		c.auth = state.AuthState{
			Status: state.AuthStatusAnonymous,
			Error:  msg,
		}
	}, state.SliceAuth)
}

// RecordAuthError records a session error without dropping the
// credential. The restore path uses it when the platform is
// unreachable: the token may still be good.
func (c *Container) RecordAuthError(msg string) {
	c.commit(func() {
		c.auth.IsLoading = false
		c.auth.Error = msg
	}, state.SliceAuth)
}

// ClearCredential silently resets the session slice. Expired or
// rejected tokens land here: session expiry is not an error.
func (c *Container) ClearCredential() {
	c.commit(func() {
		c.auth = state.EmptyAuthState()
	}, state.SliceAuth)
}

// ---- cart reducers ----

// BeginCart marks the cart busy and clears its error.
func (c *Container) BeginCart() {
	c.commit(func() {
		c.cart.IsLoading = true
		c.cart.Error = ""
	}, state.SliceCart)
}

// FinishCart merges a REST response and clears the busy flag.
func (c *Container) FinishCart(p state.CartPatch) {
	c.commit(func() {
		c.cart = c.cart.Merge(p)
		c.cart.IsLoading = false
		c.cart.Error = ""
	}, state.SliceCart)
}

// FailCart clears the busy flag and records the error.
func (c *Container) FailCart(msg string) {
	c.commit(func() {
		c.cart.IsLoading = false
		c.cart.Error = msg
	}, state.SliceCart)
}

// ApplyCartPatch merges a pushed update. Busy flags are left alone;
// an in-flight REST call still owns them.
func (c *Container) ApplyCartPatch(p state.CartPatch) {
	c.commit(func() {
		c.cart = c.cart.Merge(p)
	}, state.SliceCart)
}

// ---- wishlist reducers ----

// BeginWishlist marks the wishlist busy and clears its error.
func (c *Container) BeginWishlist() {
	c.commit(func() {
		c.wishlist.IsLoading = true
		c.wishlist.Error = ""
	}, state.SliceWishlist)
}

// FinishWishlist merges a REST response and clears the busy flag.
func (c *Container) FinishWishlist(p state.WishlistPatch) {
	c.commit(func() {
		c.wishlist = c.wishlist.Merge(p)
		c.wishlist.IsLoading = false
		c.wishlist.Error = ""
	}, state.SliceWishlist)
}

// FailWishlist clears the busy flag and records the error.
func (c *Container) FailWishlist(msg string) {
	c.commit(func() {
		c.wishlist.IsLoading = false
		c.wishlist.Error = msg
	}, state.SliceWishlist)
}

// ApplyWishlistPatch merges a pushed update.
func (c *Container) ApplyWishlistPatch(p state.WishlistPatch) {
	c.commit(func() {
		c.wishlist = c.wishlist.Merge(p)
	}, state.SliceWishlist)
}

// ---- notification reducers ----

// BeginNotifications marks the feed busy and clears its error.
func (c *Container) BeginNotifications() {
	c.commit(func() {
		c.notifications.IsLoading = true
		c.notifications.Error = ""
	}, state.SliceNotifications)
}

// FinishNotifications merges a REST refresh and clears the busy flag.
func (c *Container) FinishNotifications(p state.NotificationPatch) {
	c.commit(func() {
		c.notifications = c.notifications.Merge(p)
		c.notifications.IsLoading = false
		c.notifications.Error = ""
	}, state.SliceNotifications)
}

// FailNotifications clears the busy flag and records the error.
func (c *Container) FailNotifications(msg string) {
	c.commit(func() {
		c.notifications.IsLoading = false
		c.notifications.Error = msg
	}, state.SliceNotifications)
}

// PushNotification prepends a pushed feed entry.
func (c *Container) PushNotification(n state.Notification) {
	c.commit(func() {
		c.notifications = c.notifications.Push(n)
	}, state.SliceNotifications)
}

// MarkNotificationRead flips one entry after the platform confirmed
// the mark, ending that round-trip. The matching push receipt may also
// arrive; both paths are idempotent.
func (c *Container) MarkNotificationRead(id uuid.UUID) {
	c.commit(func() {
		c.notifications = c.notifications.MarkRead(id)
		c.notifications.IsLoading = false
		c.notifications.Error = ""
	}, state.SliceNotifications)
}

// MarkAllNotificationsRead flips the whole feed after the platform
// confirmed the bulk mark.
func (c *Container) MarkAllNotificationsRead() {
	c.commit(func() {
		c.notifications = c.notifications.MarkAllRead()
		c.notifications.IsLoading = false
		c.notifications.Error = ""
	}, state.SliceNotifications)
}

// ApplyReadReceipt applies a pushed read-state change.
func (c *Container) ApplyReadReceipt(r state.ReadReceipt) {
	c.commit(func() {
		c.notifications = c.notifications.ApplyReadReceipt(r)
	}, state.SliceNotifications)
}

// ---- recommendation reducers ----

// BeginRecommendations marks the feed busy and clears its error.
func (c *Container) BeginRecommendations() {
	c.commit(func() {
		c.recommendations.IsLoading = true
		c.recommendations.Error = ""
	}, state.SliceRecommendations)
}

// FinishRecommendations merges a REST response and clears the busy flag.
func (c *Container) FinishRecommendations(p state.RecommendationPatch) {
	c.commit(func() {
		c.recommendations = c.recommendations.Merge(p)
		c.recommendations.IsLoading = false
		c.recommendations.Error = ""
	}, state.SliceRecommendations)
}

// FailRecommendations clears the busy flag and records the error.
func (c *Container) FailRecommendations(msg string) {
	c.commit(func() {
		c.recommendations.IsLoading = false
		c.recommendations.Error = msg
	}, state.SliceRecommendations)
}

// ApplyRecommendationPatch merges a pushed update.
func (c *Container) ApplyRecommendationPatch(p state.RecommendationPatch) {
	c.commit(func() {
		c.recommendations = c.recommendations.Merge(p)
	}, state.SliceRecommendations)
}

// ---- analytics reducers ----

// BeginAnalytics marks the dashboard busy and clears its error.
func (c *Container) BeginAnalytics() {
	c.commit(func() {
		c.analytics.IsLoading = true
		c.analytics.Error = ""
	}, state.SliceAnalytics)
}

// FinishAnalytics merges a REST response and clears the busy flag.
func (c *Container) FinishAnalytics(p state.AnalyticsPatch) {
	c.commit(func() {
		c.analytics = c.analytics.Merge(p)
		c.analytics.IsLoading = false
		c.analytics.Error = ""
	}, state.SliceAnalytics)
}

// FailAnalytics clears the busy flag and records the error.
func (c *Container) FailAnalytics(msg string) {
	c.commit(func() {
		c.analytics.IsLoading = false
		c.analytics.Error = msg
	}, state.SliceAnalytics)
}

// ApplyAnalyticsPatch merges a pushed update.
func (c *Container) ApplyAnalyticsPatch(p state.AnalyticsPatch) {
	c.commit(func() {
		c.analytics = c.analytics.Merge(p)
	}, state.SliceAnalytics)
}

// ---- search reducers ----

// BeginSearch marks the search slice busy and clears its error.
func (c *Container) BeginSearch() {
	c.commit(func() {
		c.search.IsLoading = true
		c.search.Error = ""
	}, state.SliceSearch)
}

// FinishSearch merges a REST response and clears the busy flag.
func (c *Container) FinishSearch(p state.SearchPatch) {
	c.commit(func() {
		c.search = c.search.Merge(p)
		c.search.IsLoading = false
		c.search.Error = ""
	}, state.SliceSearch)
}

// FailSearch clears the busy flag and records the error.
func (c *Container) FailSearch(msg string) {
	c.commit(func() {
		c.search.IsLoading = false
		c.search.Error = msg
	}, state.SliceSearch)
}

// ApplySearchPatch merges a pushed update.
func (c *Container) ApplySearchPatch(p state.SearchPatch) {
	c.commit(func() {
		c.search = c.search.Merge(p)
	}, state.SliceSearch)
}

// FinishSearchQuery records an executed search. The submitted
// parameters replace the previous ones whole, then the platform's
// results merge on top. A patch cannot clear CategoryID, which is why
// plain FinishSearch does not serve here: a search across all
// categories must drop the old filter.
func (c *Container) FinishSearchQuery(query string, categoryID *uuid.UUID, page int, p state.SearchPatch) {
	c.commit(func() {
		c.search.Query = query
		c.search.CategoryID = nil
		if categoryID != nil {
			id := *categoryID
			c.search.CategoryID = &id
		}
		c.search.Page = page
		c.search = c.search.Merge(p)
		c.search.IsLoading = false
		c.search.Error = ""
	}, state.SliceSearch)
}

// ClearSearch drops the search slice back to its zero value.
func (c *Container) ClearSearch() {
	c.commit(func() {
		c.search = state.SearchState{}
	}, state.SliceSearch)
}

// ---- channel and global reducers ----

// SetChannelStatus mirrors the transport state. lastErr is kept only
// for terminal disconnects; reconnect attempts clear it.
func (c *Container) SetChannelStatus(status state.ChannelStatus, lastErr string) {
	c.commit(func() {
		c.channel = state.ChannelState{Status: status, LastError: lastErr}
	}, state.SliceChannel)
}

// SetGlobalError records an app-wide error.
func (c *Container) SetGlobalError(msg string) {
	c.commit(func() {
		c.global.Error = msg
	}, state.SliceGlobal)
}

// SetGlobalLoading flips the app-wide busy flag.
func (c *Container) SetGlobalLoading(v bool) {
	c.commit(func() {
		c.global.IsLoading = v
	}, state.SliceGlobal)
}

// ---- session lifecycle ----

// SignOutReset clears every sub-state in one atomic commit. The
// channel slice is left to the transport, which reports its own
// disconnect.
func (c *Container) SignOutReset() {
	c.commit(func() {
		c.auth = state.EmptyAuthState()
		c.cart = state.CartState{}
		c.wishlist = state.WishlistState{}
		c.notifications = state.NotificationState{}
		c.recommendations = state.RecommendationState{}
		c.analytics = state.AnalyticsState{}
		c.search = state.SearchState{}
		c.global = state.GlobalState{}
	},
		state.SliceAuth,
		state.SliceCart,
		state.SliceWishlist,
		state.SliceNotifications,
		state.SliceRecommendations,
		state.SliceAnalytics,
		state.SliceSearch,
		state.SliceGlobal,
	)
}
