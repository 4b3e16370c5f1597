package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/tests/testutil"
)

func newWishlistFixture(t *testing.T) (*WishlistService, *testutil.MockGateway, *store.Container) {
	t.Helper()
	gateway := &testutil.MockGateway{}
	container := store.New(zaptest.NewLogger(t))
	svc := NewWishlistService(gateway, container, zaptest.NewLogger(t))
	return svc, gateway, container
}

func wishlistPatch(items ...state.WishlistItem) *state.WishlistPatch {
	return &state.WishlistPatch{Items: &items}
}

func TestWishlistService_Add(t *testing.T) {
	svc, gateway, container := newWishlistFixture(t)
	productID := uuid.New()
	dripper := state.WishlistItem{
		ProductID: productID,
		Name:      "Ceramic Dripper",
		AddedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	gateway.On("AddWishlistItem", mock.Anything, productID).Return(wishlistPatch(dripper), nil)

	require.NoError(t, svc.Add(context.Background(), productID))

	got := container.Wishlist()
	assert.True(t, got.Contains(productID))
	assert.False(t, got.IsLoading)
	gateway.AssertExpectations(t)
}

func TestWishlistService_Remove(t *testing.T) {
	svc, gateway, container := newWishlistFixture(t)
	productID := uuid.New()
	gateway.On("RemoveWishlistItem", mock.Anything, productID).Return(wishlistPatch(), nil)

	require.NoError(t, svc.Remove(context.Background(), productID))
	assert.Empty(t, container.Wishlist().Items)
}

func TestWishlistService_RefreshFailure(t *testing.T) {
	svc, gateway, container := newWishlistFixture(t)
	gateway.On("Wishlist", mock.Anything).
		Return(nil, &platform.RequestError{StatusCode: 500, Message: "Something went wrong."})

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrRequestFailed)

	got := container.Wishlist()
	assert.Equal(t, "Something went wrong.", got.Error)
	assert.False(t, got.IsLoading)
}

func TestWishlistService_NextAttemptClearsError(t *testing.T) {
	svc, gateway, container := newWishlistFixture(t)
	gateway.On("Wishlist", mock.Anything).
		Return(nil, &platform.RequestError{StatusCode: 500, Message: "Something went wrong."}).Once()
	gateway.On("Wishlist", mock.Anything).Return(wishlistPatch(), nil).Once()

	require.Error(t, svc.Refresh(context.Background()))
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Empty(t, container.Wishlist().Error)
	gateway.AssertExpectations(t)
}
