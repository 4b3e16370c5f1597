package storefront

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/tests/testutil"
)

// hookCapture records what a service registers for reconnect recovery.
type hookCapture struct {
	names []string
	fns   map[string]func(context.Context) error
}

func (h *hookCapture) OnReconnect(name string, fn func(context.Context) error) {
	if h.fns == nil {
		h.fns = make(map[string]func(context.Context) error)
	}
	h.names = append(h.names, name)
	h.fns[name] = fn
}

func newCartFixture(t *testing.T) (*CartService, *testutil.MockGateway, *store.Container) {
	t.Helper()
	gateway := &testutil.MockGateway{}
	container := store.New(zaptest.NewLogger(t))
	svc := NewCartService(gateway, container, zaptest.NewLogger(t))
	return svc, gateway, container
}

func cartPatch(subtotal string, items ...state.CartItem) *state.CartPatch {
	sub := decimal.RequireFromString(subtotal)
	p := &state.CartPatch{Subtotal: &sub}
	if len(items) > 0 {
		p.Items = &items
	}
	return p
}

func TestCartService_Refresh(t *testing.T) {
	svc, gateway, container := newCartFixture(t)
	kettle := state.CartItem{ProductID: uuid.New(), Name: "Pour-Over Kettle", Quantity: 2}
	gateway.On("Cart", mock.Anything).Return(cartPatch("85.00", kettle), nil)

	require.NoError(t, svc.Refresh(context.Background()))

	got := container.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Pour-Over Kettle", got.Items[0].Name)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("85.00")))
	assert.False(t, got.IsLoading)
	assert.Empty(t, got.Error)
	gateway.AssertExpectations(t)
}

func TestCartService_AddItem(t *testing.T) {
	svc, gateway, container := newCartFixture(t)
	productID := uuid.New()
	added := state.CartItem{ProductID: productID, Name: "Burr Grinder", Quantity: 1}
	gateway.On("AddCartItem", mock.Anything, productID, 1).Return(cartPatch("64.00", added), nil)

	require.NoError(t, svc.AddItem(context.Background(), productID, 1))

	got := container.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, productID, got.Items[0].ProductID)
	gateway.AssertExpectations(t)
}

func TestCartService_SetQuantitySubmitsAsGiven(t *testing.T) {
	// Stock ceilings are the platform's to enforce; the submitted
	// quantity goes out untouched and the clamped cart comes back.
	svc, gateway, container := newCartFixture(t)
	productID := uuid.New()
	clamped := state.CartItem{ProductID: productID, Name: "Pour-Over Kettle", Quantity: 3, StockCeiling: 3}
	gateway.On("UpdateCartItem", mock.Anything, productID, 99).Return(cartPatch("127.50", clamped), nil)

	require.NoError(t, svc.SetQuantity(context.Background(), productID, 99))

	got := container.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
	gateway.AssertExpectations(t)
}

func TestCartService_RemoveItem(t *testing.T) {
	svc, gateway, container := newCartFixture(t)
	productID := uuid.New()
	empty := []state.CartItem{}
	gateway.On("RemoveCartItem", mock.Anything, productID).
		Return(&state.CartPatch{Items: &empty}, nil)

	require.NoError(t, svc.RemoveItem(context.Background(), productID))
	assert.Empty(t, container.Cart().Items)
}

func TestCartService_FailureKeepsLastGoodCart(t *testing.T) {
	svc, gateway, container := newCartFixture(t)
	kettle := state.CartItem{ProductID: uuid.New(), Name: "Pour-Over Kettle", Quantity: 2}
	gateway.On("Cart", mock.Anything).Return(cartPatch("85.00", kettle), nil).Once()
	require.NoError(t, svc.Refresh(context.Background()))

	gateway.On("AddCartItem", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &platform.RequestError{StatusCode: 409, Code: "OUT_OF_STOCK", Message: "Not enough stock for this product."})

	err := svc.AddItem(context.Background(), uuid.New(), 4)
	require.Error(t, err)

	got := container.Cart()
	assert.Equal(t, "Not enough stock for this product.", got.Error)
	assert.False(t, got.IsLoading)
	require.Len(t, got.Items, 1, "last good cart stays visible alongside the error")
}

func TestCartService_TransportFailureHumanizesError(t *testing.T) {
	svc, gateway, container := newCartFixture(t)
	gateway.On("Cart", mock.Anything).
		Return(nil, fmt.Errorf("get cart: %w", platform.ErrUnavailable))

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, "The service is unreachable. Check the connection and try again.", container.Cart().Error)
}

func TestCartService_RefetchHook(t *testing.T) {
	t.Run("anonymous sessions skip the pull", func(t *testing.T) {
		svc, gateway, _ := newCartFixture(t)
		reg := &hookCapture{}
		svc.RegisterRefetch(reg)
		require.Contains(t, reg.names, "cart")

		require.NoError(t, reg.fns["cart"](context.Background()))
		gateway.AssertNotCalled(t, "Cart", mock.Anything)
	})

	t.Run("authenticated sessions re-pull", func(t *testing.T) {
		svc, gateway, container := newCartFixture(t)
		container.CompleteAuth(state.Identity{ID: uuid.New(), Role: state.RoleCustomer}, "tok-live")
		gateway.On("Cart", mock.Anything).Return(cartPatch("12.00"), nil)

		reg := &hookCapture{}
		svc.RegisterRefetch(reg)
		require.NoError(t, reg.fns["cart"](context.Background()))

		assert.True(t, container.Cart().Subtotal.Equal(decimal.RequireFromString("12.00")))
		gateway.AssertExpectations(t)
	})
}
