package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/console"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/session"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/storefront"
	syncapp "github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/sync"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/api"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/channel"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/config"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/snapshot"
)

// Runtime is one assembled client: container, REST gateway, push
// channel, session manager and the full action-service surface, wired
// the way the kiosk binary wires them.
type Runtime struct {
	Container       *store.Container
	Snapshots       snapshot.Store
	Gateway         *api.Client
	Channel         *channel.Client
	Reconciler      *syncapp.Reconciler
	Session         *session.Manager
	Cart            *storefront.CartService
	Wishlist        *storefront.WishlistService
	Search          *storefront.SearchService
	Recommendations *storefront.RecommendationService
	Notifications   *console.NotificationService
	Analytics       *console.AnalyticsService
	Categories      *console.CategoryService

	t *testing.T
}

// NewRuntime assembles a client with a throwaway in-memory snapshot
// store. Use NewRuntimeWithSnapshots to share state across boots.
func NewRuntime(t *testing.T, platform *FakePlatform) *Runtime {
	t.Helper()
	return NewRuntimeWithSnapshots(t, platform, snapshot.NewMemoryStore(zaptest.NewLogger(t)))
}

// NewRuntimeWithSnapshots assembles a client on an existing snapshot
// store, restoring whatever the store holds, as a warm boot would.
func NewRuntimeWithSnapshots(t *testing.T, platform *FakePlatform, snaps snapshot.Store) *Runtime {
	t.Helper()
	log := zaptest.NewLogger(t)

	container := store.New(log, store.WithSnapshotStore(snaps, "test"))
	snap, err := snaps.Load(context.Background())
	require.NoError(t, err, "Failed to load snapshot")
	container.Restore(snap)

	gateway, err := api.NewClient(config.APIConfig{
		BaseURL: platform.Server.URL,
		Timeout: 5 * time.Second,
	}, container)
	require.NoError(t, err, "Failed to build gateway")

	reconciler := syncapp.NewReconciler(container, log)

	// Aggressive timings keep reconnect scenarios fast.
	ch, err := channel.NewClient(config.ChannelConfig{
		URL:                      platform.ChannelURL(),
		PingInterval:             250 * time.Millisecond,
		PongTimeout:              250 * time.Millisecond,
		ReconnectInitialInterval: 25 * time.Millisecond,
		ReconnectMaxInterval:     100 * time.Millisecond,
	}, reconciler, log)
	require.NoError(t, err, "Failed to build channel client")

	sess, err := session.NewManager(gateway, container, ch, log)
	require.NoError(t, err, "Failed to build session manager")
	reconciler.OnForcedSignOut(sess.ForcedSignOut)

	rt := &Runtime{
		Container:       container,
		Snapshots:       snaps,
		Gateway:         gateway,
		Channel:         ch,
		Reconciler:      reconciler,
		Session:         sess,
		Cart:            storefront.NewCartService(gateway, container, log),
		Wishlist:        storefront.NewWishlistService(gateway, container, log),
		Search:          storefront.NewSearchService(gateway, container, log),
		Recommendations: storefront.NewRecommendationService(gateway, container, log),
		Notifications:   console.NewNotificationService(gateway, container, log),
		Analytics:       console.NewAnalyticsService(gateway, container, log),
		Categories:      console.NewCategoryService(gateway, log),
		t:               t,
	}
	rt.Cart.RegisterRefetch(reconciler)
	rt.Notifications.RegisterRefetch(reconciler)
	rt.Analytics.RegisterRefetch(reconciler)

	t.Cleanup(rt.Shutdown)
	return rt
}

// Shutdown tears the push channel down and waits for the connection
// loop to unwind. Safe to call more than once.
func (rt *Runtime) Shutdown() {
	rt.Channel.Close()
	<-rt.Channel.Done()
}

// SignIn authenticates and waits for the push channel to come up.
func (rt *Runtime) SignIn(email, password string) {
	rt.t.Helper()
	require.NoError(rt.t, rt.Session.Authenticate(context.Background(), email, password), "Sign-in failed")
	rt.WaitChannelStatus(state.ChannelStatusConnected)
}

// WaitChannelStatus blocks until the container mirrors the wanted
// transport status.
func (rt *Runtime) WaitChannelStatus(want state.ChannelStatus) {
	rt.t.Helper()
	require.Eventually(rt.t, func() bool {
		return rt.Container.Channel().Status == want
	}, 3*time.Second, 10*time.Millisecond, "channel never reached %s", want)
}
