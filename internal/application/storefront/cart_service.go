// Package storefront holds the customer-facing action services: cart,
// wishlist, product search and recommendations. Every operation is a
// thin request-then-merge: mark the concern busy, call the platform,
// fold the authoritative response into the container. Totals,
// stock ceilings and result ordering are all server-computed; nothing
// here reshapes them.
package storefront

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

// HookRegistrar accepts named hooks to run after the live channel
// reconnects. Satisfied by the sync reconciler.
type HookRegistrar interface {
	OnReconnect(name string, fn func(context.Context) error)
}

// CartService drives the platform cart. Quantities are submitted as
// given; the platform clamps to its stock ceiling and the clamped cart
// comes back in the response.
type CartService struct {
	gateway   platform.Gateway
	container *store.Container
	logger    *zap.Logger
}

// NewCartService wires the cart actions.
func NewCartService(gateway platform.Gateway, container *store.Container, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{gateway: gateway, container: container, logger: logger}
}

// Refresh re-pulls the whole cart.
func (s *CartService) Refresh(ctx context.Context) error {
	return s.do(ctx, "refresh", s.gateway.Cart)
}

// AddItem puts a product in the cart.
func (s *CartService) AddItem(ctx context.Context, productID uuid.UUID, quantity int) error {
	return s.do(ctx, "add_item", func(ctx context.Context) (*state.CartPatch, error) {
		return s.gateway.AddCartItem(ctx, productID, quantity)
	})
}

// SetQuantity changes a line's quantity.
func (s *CartService) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	return s.do(ctx, "set_quantity", func(ctx context.Context) (*state.CartPatch, error) {
		return s.gateway.UpdateCartItem(ctx, productID, quantity)
	})
}

// RemoveItem drops a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	return s.do(ctx, "remove_item", func(ctx context.Context) (*state.CartPatch, error) {
		return s.gateway.RemoveCartItem(ctx, productID)
	})
}

// RegisterRefetch re-pulls the cart after a reconnect; push events
// lost during the gap may include cart changes from other devices.
// Anonymous sessions have no cart to pull.
func (s *CartService) RegisterRefetch(reg HookRegistrar) {
	reg.OnReconnect("cart", func(ctx context.Context) error {
		if !s.container.Authenticated() {
			return nil
		}
		return s.Refresh(ctx)
	})
}

func (s *CartService) do(ctx context.Context, method string, call func(context.Context) (*state.CartPatch, error)) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", method)
	defer span.End()

	s.container.BeginCart()
	patch, err := call(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("cart operation failed", zap.String("op", method), zap.Error(err))
		s.container.FailCart(platform.ErrorMessage(err))
		return err
	}
	s.container.FinishCart(*patch)
	telemetry.SetOK(span)
	return nil
}
