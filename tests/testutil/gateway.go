package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/catalog"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

// MockGateway is a testify mock of the platform REST gateway, shared
// by the application-layer service tests.
type MockGateway struct {
	mock.Mock
}

var _ platform.Gateway = (*MockGateway)(nil)

func (m *MockGateway) Login(ctx context.Context, creds platform.Credentials) (*platform.Session, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Session), args.Error(1)
}

func (m *MockGateway) Register(ctx context.Context, reg platform.Registration) (*platform.Session, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Session), args.Error(1)
}

func (m *MockGateway) CurrentUser(ctx context.Context) (*state.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.Identity), args.Error(1)
}

func (m *MockGateway) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) Cart(ctx context.Context) (*state.CartPatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.CartPatch), args.Error(1)
}

func (m *MockGateway) AddCartItem(ctx context.Context, productID uuid.UUID, quantity int) (*state.CartPatch, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.CartPatch), args.Error(1)
}

func (m *MockGateway) UpdateCartItem(ctx context.Context, productID uuid.UUID, quantity int) (*state.CartPatch, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.CartPatch), args.Error(1)
}

func (m *MockGateway) RemoveCartItem(ctx context.Context, productID uuid.UUID) (*state.CartPatch, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.CartPatch), args.Error(1)
}

func (m *MockGateway) Wishlist(ctx context.Context) (*state.WishlistPatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.WishlistPatch), args.Error(1)
}

func (m *MockGateway) AddWishlistItem(ctx context.Context, productID uuid.UUID) (*state.WishlistPatch, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.WishlistPatch), args.Error(1)
}

func (m *MockGateway) RemoveWishlistItem(ctx context.Context, productID uuid.UUID) (*state.WishlistPatch, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.WishlistPatch), args.Error(1)
}

func (m *MockGateway) Notifications(ctx context.Context) (*state.NotificationPatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.NotificationPatch), args.Error(1)
}

func (m *MockGateway) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGateway) MarkAllNotificationsRead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) Recommendations(ctx context.Context) (*state.RecommendationPatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.RecommendationPatch), args.Error(1)
}

func (m *MockGateway) Analytics(ctx context.Context) (*state.AnalyticsPatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.AnalyticsPatch), args.Error(1)
}

func (m *MockGateway) SearchProducts(ctx context.Context, q platform.SearchQuery) (*state.SearchPatch, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.SearchPatch), args.Error(1)
}

func (m *MockGateway) Categories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockGateway) MoveCategory(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, id, newParentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

// ChannelRecorder is a live-channel stand-in that records how the
// session layer drives it. Safe for concurrent use.
type ChannelRecorder struct {
	mu     sync.Mutex
	opens  []string
	closes int
}

var _ platform.LiveChannel = (*ChannelRecorder)(nil)

func (c *ChannelRecorder) Open(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opens = append(c.opens, token)
}

func (c *ChannelRecorder) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
}

// OpenTokens returns every token passed to Open, in order.
func (c *ChannelRecorder) OpenTokens() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.opens...)
}

// CloseCount returns how many times Close was called.
func (c *ChannelRecorder) CloseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}
