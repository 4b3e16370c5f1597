// Package sync folds live channel traffic back into the state
// container. One reconciler instance is the channel's handler: it
// decodes pushed payloads through a typed dispatch table, mirrors
// transport status, and re-pulls REST state after a reconnect since
// events during the gap are lost, not replayed.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/channel"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

// Platform push event names.
const (
	eventCartUpdated            = "cart.updated"
	eventWishlistUpdated        = "wishlist.updated"
	eventNotificationCreated    = "notification.created"
	eventNotificationUpdated    = "notification.updated"
	eventRecommendationsUpdated = "recommendations.updated"
	eventAnalyticsUpdated       = "analytics.updated"
	eventSearchUpdated          = "search.updated"
	eventUserBlocked            = "user.blocked"
)

type userBlockedEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Reason string    `json:"reason"`
}

type refetchHook struct {
	name string
	fn   func(context.Context) error
}

// Reconciler applies pushed updates to the container. It is the
// channel's Handler; all methods are safe for the transport's
// goroutines.
type Reconciler struct {
	container *store.Container
	logger    *zap.Logger
	metrics   *telemetry.RuntimeMetrics

	dispatch map[string]func(json.RawMessage) error

	mu            sync.Mutex
	everConnected bool
	refetch       []refetchHook
	forcedSignOut func(reason string)
}

// Option configures optional collaborators.
type Option func(*Reconciler)

// WithMetrics attaches runtime metrics.
func WithMetrics(m *telemetry.RuntimeMetrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// NewReconciler wires the dispatch table. Adding an event type is:
// declare the payload shape, write the merge func, add one entry.
func NewReconciler(container *store.Container, logger *zap.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reconciler{
		container: container,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.dispatch = map[string]func(json.RawMessage) error{
		eventCartUpdated:            decodeInto(container.ApplyCartPatch),
		eventWishlistUpdated:        decodeInto(container.ApplyWishlistPatch),
		eventNotificationCreated:    decodeInto(container.PushNotification),
		eventNotificationUpdated:    decodeInto(container.ApplyReadReceipt),
		eventRecommendationsUpdated: decodeInto(container.ApplyRecommendationPatch),
		eventAnalyticsUpdated:       decodeInto(container.ApplyAnalyticsPatch),
		eventSearchUpdated:          decodeInto(container.ApplySearchPatch),
		eventUserBlocked:            r.handleUserBlocked,
	}
	return r
}

var _ channel.Handler = (*Reconciler)(nil)

// decodeInto adapts a typed reducer to the raw-payload dispatch table.
func decodeInto[P any](apply func(P)) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		var p P
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		apply(p)
		return nil
	}
}

// OnReconnect registers a refetch hook, run after every re-connect
// (not the first connect: the login flow does its own initial pulls).
// Hooks run sequentially on one goroutine per reconnect; failures are
// logged and never stop later hooks.
func (r *Reconciler) OnReconnect(name string, fn func(context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refetch = append(r.refetch, refetchHook{name: name, fn: fn})
}

// OnForcedSignOut registers the forced sign-out handler, invoked
// asynchronously when the platform blocks the current identity.
func (r *Reconciler) OnForcedSignOut(fn func(reason string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forcedSignOut = fn
}

// HandleEvent decodes and applies one pushed event. Unknown names are
// dropped at debug level; a panicking merge is recovered so the read
// loop survives.
func (r *Reconciler) HandleEvent(evt channel.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("push handler panicked",
				zap.String("event", evt.Name),
				zap.Any("panic", rec))
		}
	}()

	r.metrics.RecordPushEvent(context.Background(), evt.Name)

	merge, ok := r.dispatch[evt.Name]
	if !ok {
		r.logger.Debug("ignoring unknown push event", zap.String("event", evt.Name))
		return
	}
	if err := merge(evt.Payload); err != nil {
		r.logger.Warn("dropping undecodable push payload",
			zap.String("event", evt.Name),
			zap.Error(err))
	}
}

// HandleStatus mirrors transport state into the container and fires
// refetch hooks on re-connects. A terminal disconnect resets the
// tracking so the next session's first connect does not refetch.
func (r *Reconciler) HandleStatus(status state.ChannelStatus, lastErr string) {
	r.container.SetChannelStatus(status, lastErr)

	switch status {
	case state.ChannelStatusConnected:
		r.mu.Lock()
		reconnect := r.everConnected
		r.everConnected = true
		hooks := make([]refetchHook, len(r.refetch))
		copy(hooks, r.refetch)
		r.mu.Unlock()
		if reconnect {
			go r.runRefetch(hooks)
		}
	case state.ChannelStatusDisconnected:
		r.mu.Lock()
		r.everConnected = false
		r.mu.Unlock()
	}
}

func (r *Reconciler) runRefetch(hooks []refetchHook) {
	ctx := context.Background()
	for _, h := range hooks {
		if err := h.fn(ctx); err != nil {
			r.logger.Warn("refetch after reconnect failed",
				zap.String("hook", h.name),
				zap.Error(err))
		}
	}
}

func (r *Reconciler) handleUserBlocked(raw json.RawMessage) error {
	var evt userBlockedEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return fmt.Errorf("decode user.blocked: %w", err)
	}

	auth := r.container.Auth()
	if auth.Identity == nil || auth.Identity.ID != evt.UserID {
		return nil
	}

	reason := evt.Reason
	if reason == "" {
		reason = "Your account has been blocked."
	}

	r.mu.Lock()
	forced := r.forcedSignOut
	r.mu.Unlock()
	if forced == nil {
		r.logger.Warn("user blocked but no forced sign-out handler registered")
		return nil
	}
	r.logger.Info("current identity blocked by platform, signing out",
		zap.String("user_id", evt.UserID.String()))
	// Asynchronous: sign-out closes the channel, and the channel's read
	// goroutine is the one delivering this event.
	go forced(reason)
	return nil
}
