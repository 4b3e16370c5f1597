package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/snapshot"
)

func TestAuthenticateEstablishesLiveSession(t *testing.T) {
	fp := NewFakePlatform(t)
	user := fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	rt := NewRuntime(t, fp)

	rt.SignIn("ada@example.com", "correct-horse")

	auth := rt.Container.Auth()
	assert.Equal(t, state.AuthStatusAuthenticated, auth.Status)
	require.NotNil(t, auth.Identity)
	assert.Equal(t, user.ID, auth.Identity.ID)
	assert.Equal(t, "ada@example.com", auth.Identity.Email)
	assert.NotEmpty(t, auth.Token)
	assert.False(t, auth.IsLoading)

	require.Eventually(t, func() bool {
		return fp.ActiveConnections() == 1
	}, 3*time.Second, 10*time.Millisecond, "expected one live push connection")
	assert.Equal(t, "Bearer "+auth.Token, fp.LastChannelAuth(), "the session token must authenticate the channel")
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	fp := NewFakePlatform(t)
	fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	rt := NewRuntime(t, fp)

	err := rt.Session.Authenticate(context.Background(), "ada@example.com", "battery-staple")
	require.Error(t, err)
	require.ErrorIs(t, err, platform.ErrUnauthorized)

	auth := rt.Container.Auth()
	assert.Equal(t, state.AuthStatusAnonymous, auth.Status)
	assert.Equal(t, "Email or password is incorrect.", auth.Error)
	assert.Empty(t, auth.Token)
	assert.Nil(t, auth.Identity)
	assert.Zero(t, fp.Upgrades(), "a failed login must not dial the channel")
}

func TestRegisterCreatesSignedInAccount(t *testing.T) {
	fp := NewFakePlatform(t)
	rt := NewRuntime(t, fp)
	ctx := context.Background()

	require.NoError(t, rt.Session.Register(ctx, "Mei Tanaka", "mei@example.com", "orchid-lantern"))
	rt.WaitChannelStatus(state.ChannelStatusConnected)

	auth := rt.Container.Auth()
	assert.Equal(t, state.AuthStatusAuthenticated, auth.Status)
	require.NotNil(t, auth.Identity)
	assert.Equal(t, state.RoleCustomer, auth.Identity.Role)

	rt.Session.SignOut(ctx)
	rt.WaitChannelStatus(state.ChannelStatusDisconnected)

	err := rt.Session.Register(ctx, "Mei Again", "mei@example.com", "orchid-lantern")
	require.Error(t, err)
	assert.Equal(t, "An account with this email already exists.", rt.Container.Auth().Error)
}

func TestSignOutClearsEverySlice(t *testing.T) {
	fp := NewFakePlatform(t)
	user := fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	mug := fp.SeedProduct("Stoneware Mug", "19.99", 10)
	lamp := fp.SeedProduct("Brass Desk Lamp", "49.00", 3)
	fp.SeedNotification(user.ID, "Your order has shipped.", "order")
	fp.SetRecommendations([]state.RecommendedProduct{{
		ProductID: uuid.New(),
		Name:      "Walnut Bookshelf",
		UnitPrice: decimal.RequireFromString("129.00"),
		Reason:    "Often bought with recent orders",
		Score:     0.92,
	}})

	rt := NewRuntime(t, fp)
	rt.SignIn("ada@example.com", "correct-horse")

	ctx := context.Background()
	require.NoError(t, rt.Cart.AddItem(ctx, mug, 2))
	require.NoError(t, rt.Wishlist.Add(ctx, lamp))
	require.NoError(t, rt.Notifications.Refresh(ctx))
	require.NoError(t, rt.Recommendations.Refresh(ctx))
	require.NoError(t, rt.Search.Search(ctx, "mug", nil, 1))

	require.NotEmpty(t, rt.Container.Cart().Items)
	require.NotEmpty(t, rt.Container.Wishlist().Items)
	require.NotEmpty(t, rt.Container.Notifications().Items)
	require.NotEmpty(t, rt.Container.Recommendations().Items)
	require.NotEmpty(t, rt.Container.Search().Results)

	rt.Session.SignOut(ctx)

	auth := rt.Container.Auth()
	assert.Equal(t, state.AuthStatusAnonymous, auth.Status)
	assert.Nil(t, auth.Identity)
	assert.Empty(t, auth.Token)

	cart := rt.Container.Cart()
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
	assert.True(t, cart.Total.IsZero())
	assert.Empty(t, rt.Container.Wishlist().Items)

	notifications := rt.Container.Notifications()
	assert.Empty(t, notifications.Items)
	assert.Zero(t, notifications.UnreadCount)
	assert.Empty(t, rt.Container.Recommendations().Items)

	search := rt.Container.Search()
	assert.Empty(t, search.Query)
	assert.Empty(t, search.Results)
	assert.Zero(t, rt.Container.Global())

	require.Eventually(t, func() bool {
		return fp.ActiveConnections() == 0
	}, 3*time.Second, 10*time.Millisecond, "sign-out must drop the push connection")

	snap, err := rt.Snapshots.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap, "sign-out persists the anonymous state rather than deleting the document")
	assert.False(t, snap.Authenticated())
	assert.Empty(t, snap.Cart.Items)
}

func TestBlockedPushForcesSignOut(t *testing.T) {
	fp := NewFakePlatform(t)
	user := fp.SeedAccount("Noor Haddad", "noor@example.com", "copper-kettle", state.RoleCustomer)
	rt := NewRuntime(t, fp)
	rt.SignIn("noor@example.com", "copper-kettle")

	fp.BlockAccount("noor@example.com")
	fp.Push("user.blocked", map[string]any{
		"user_id": user.ID,
		"reason":  "Account suspended pending review.",
	})

	require.Eventually(t, func() bool {
		auth := rt.Container.Auth()
		return auth.Status == state.AuthStatusAnonymous && auth.Error == "Account suspended pending review."
	}, 3*time.Second, 10*time.Millisecond, "the push must force a sign-out with its reason")

	rt.WaitChannelStatus(state.ChannelStatusDisconnected)
	require.Eventually(t, func() bool {
		return fp.ActiveConnections() == 0
	}, 3*time.Second, 10*time.Millisecond)

	auth := rt.Container.Auth()
	assert.Nil(t, auth.Identity)
	assert.Empty(t, auth.Token)
}

func TestBlockedPushIgnoredForOtherAccounts(t *testing.T) {
	fp := NewFakePlatform(t)
	fp.SeedAccount("Noor Haddad", "noor@example.com", "copper-kettle", state.RoleCustomer)
	rt := NewRuntime(t, fp)
	rt.SignIn("noor@example.com", "copper-kettle")

	fp.Push("user.blocked", map[string]any{
		"user_id": uuid.New(),
		"reason":  "Not about this session.",
	})
	// A follow-up patch proves the mismatched event was processed and
	// dropped rather than still queued.
	fp.Push("cart.updated", map[string]any{"subtotal": "42.50"})

	require.Eventually(t, func() bool {
		return rt.Container.Cart().Subtotal.Equal(decimal.RequireFromString("42.50"))
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, state.AuthStatusAuthenticated, rt.Container.Auth().Status)
	assert.Equal(t, 1, fp.ActiveConnections())
}

func TestRestoreSessionResumesWarmBoot(t *testing.T) {
	fp := NewFakePlatform(t)
	user := fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	mug := fp.SeedProduct("Stoneware Mug", "19.99", 10)

	snaps := snapshot.NewMemoryStore(zaptest.NewLogger(t))
	ctx := context.Background()

	first := NewRuntimeWithSnapshots(t, fp, snaps)
	first.SignIn("ada@example.com", "correct-horse")
	require.NoError(t, first.Cart.AddItem(ctx, mug, 2))
	first.Shutdown()

	second := NewRuntimeWithSnapshots(t, fp, snaps)

	// Warm state is visible before any network traffic.
	auth := second.Container.Auth()
	assert.Equal(t, state.AuthStatusAuthenticated, auth.Status)
	require.NotNil(t, auth.Identity)
	assert.Equal(t, user.ID, auth.Identity.ID)
	require.Len(t, second.Container.Cart().Items, 1)
	assert.False(t, second.Container.Cart().IsLoading)
	assert.Equal(t, state.ChannelStatusDisconnected, second.Container.Channel().Status)

	require.NoError(t, second.Session.RestoreSession(ctx))
	second.WaitChannelStatus(state.ChannelStatusConnected)
	assert.GreaterOrEqual(t, fp.IdentityFetches(), int32(1), "restore must revalidate against the platform")
}

func TestRestoreSessionDropsRevokedToken(t *testing.T) {
	fp := NewFakePlatform(t)
	identity := fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)

	// A credential the platform never issued, as after a server-side
	// session purge.
	snaps := snapshot.NewMemoryStore(zaptest.NewLogger(t))
	snap := snapshot.New()
	snap.AuthStatus = state.AuthStatusAuthenticated
	snap.Token = "tok-revoked"
	snap.Identity = &identity
	require.NoError(t, snaps.Save(context.Background(), snap))

	rt := NewRuntimeWithSnapshots(t, fp, snaps)
	require.NoError(t, rt.Session.RestoreSession(context.Background()), "a rejected token is expiry, not an error")

	auth := rt.Container.Auth()
	assert.Equal(t, state.AuthStatusAnonymous, auth.Status)
	assert.Empty(t, auth.Token)
	assert.Zero(t, fp.Upgrades(), "no channel dial without a valid session")
}
