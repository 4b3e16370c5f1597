package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

func TestCartFlowMirrorsServerTotals(t *testing.T) {
	fp := NewFakePlatform(t)
	fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	mug := fp.SeedProduct("Stoneware Mug", "19.99", 10)

	rt := NewRuntime(t, fp)
	rt.SignIn("ada@example.com", "correct-horse")
	ctx := context.Background()

	require.NoError(t, rt.Cart.AddItem(ctx, mug, 2))
	cart := rt.Container.Cart()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Subtotal.Equal(decimal.RequireFromString("39.98")), "subtotal %s", cart.Subtotal)
	assert.True(t, cart.Tax.Equal(decimal.RequireFromString("4.00")), "tax %s", cart.Tax)
	assert.True(t, cart.Shipping.Equal(decimal.RequireFromString("4.99")), "shipping %s", cart.Shipping)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("48.97")), "total %s", cart.Total)

	require.NoError(t, rt.Cart.SetQuantity(ctx, mug, 3))
	cart = rt.Container.Cart()
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("70.96")), "total %s", cart.Total)

	require.NoError(t, rt.Cart.RemoveItem(ctx, mug))
	cart = rt.Container.Cart()
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
	assert.True(t, cart.Shipping.IsZero(), "an empty cart ships for nothing")
	assert.True(t, cart.Total.IsZero())
	assert.False(t, cart.IsLoading)
}

func TestCartAddBeyondStockSurfacesError(t *testing.T) {
	fp := NewFakePlatform(t)
	fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	lamp := fp.SeedProduct("Brass Desk Lamp", "49.00", 2)

	rt := NewRuntime(t, fp)
	rt.SignIn("ada@example.com", "correct-horse")

	err := rt.Cart.AddItem(context.Background(), lamp, 3)
	require.Error(t, err)
	require.ErrorIs(t, err, platform.ErrRequestFailed)

	cart := rt.Container.Cart()
	assert.Equal(t, "Not enough stock to add this quantity.", cart.Error)
	assert.False(t, cart.IsLoading)
	assert.Empty(t, cart.Items, "a rejected add leaves the cart as it was")
}

func TestWishlistRoundTrip(t *testing.T) {
	fp := NewFakePlatform(t)
	fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	lamp := fp.SeedProduct("Brass Desk Lamp", "49.00", 3)

	rt := NewRuntime(t, fp)
	rt.SignIn("ada@example.com", "correct-horse")
	ctx := context.Background()

	require.NoError(t, rt.Wishlist.Add(ctx, lamp))
	saved := rt.Container.Wishlist()
	require.Len(t, saved.Items, 1)
	assert.Equal(t, "Brass Desk Lamp", saved.Items[0].Name)
	assert.True(t, saved.Items[0].UnitPrice.Equal(decimal.RequireFromString("49.00")))
	assert.True(t, saved.Items[0].InStock)

	// Saving twice is idempotent on the platform.
	require.NoError(t, rt.Wishlist.Add(ctx, lamp))
	assert.Len(t, rt.Container.Wishlist().Items, 1)

	require.NoError(t, rt.Wishlist.Remove(ctx, lamp))
	assert.Empty(t, rt.Container.Wishlist().Items)
}

func TestSearchFoldsQueryIntoState(t *testing.T) {
	fp := NewFakePlatform(t)
	fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	fp.SeedProduct("Walnut Desk", "280.00", 4)
	fp.SeedProduct("Oak Chair", "120.00", 9)

	rt := NewRuntime(t, fp)
	rt.SignIn("ada@example.com", "correct-horse")

	require.NoError(t, rt.Search.Search(context.Background(), "  WALNUT ", nil, 1))

	search := rt.Container.Search()
	assert.Equal(t, "walnut", search.Query, "queries are trimmed and case-folded")
	assert.Equal(t, 1, search.Page)
	assert.Nil(t, search.CategoryID)
	require.Len(t, search.Results, 1)
	assert.Equal(t, "Walnut Desk", search.Results[0].Name)
	assert.Equal(t, 1, search.TotalHits)

	rt.Search.Clear()
	search = rt.Container.Search()
	assert.Empty(t, search.Query)
	assert.Empty(t, search.Results)
	assert.Zero(t, search.TotalHits)
}

func TestRecommendationsRefresh(t *testing.T) {
	fp := NewFakePlatform(t)
	fp.SeedAccount("Ada Lovelace", "ada@example.com", "correct-horse", state.RoleCustomer)
	fp.SetRecommendations([]state.RecommendedProduct{
		{Name: "Walnut Bookshelf", UnitPrice: decimal.RequireFromString("129.00"), Reason: "Pairs with your desk", Score: 0.92},
		{Name: "Desk Organizer", UnitPrice: decimal.RequireFromString("24.50"), Reason: "Popular with similar shoppers", Score: 0.81},
	})

	rt := NewRuntime(t, fp)
	rt.SignIn("ada@example.com", "correct-horse")

	require.NoError(t, rt.Recommendations.Refresh(context.Background()))

	recs := rt.Container.Recommendations()
	require.Len(t, recs.Items, 2)
	assert.Equal(t, "Walnut Bookshelf", recs.Items[0].Name)
	assert.False(t, recs.GeneratedAt.IsZero())
	assert.False(t, recs.IsLoading)
}
