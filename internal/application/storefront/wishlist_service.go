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

// WishlistService drives the platform wishlist.
type WishlistService struct {
	gateway   platform.Gateway
	container *store.Container
	logger    *zap.Logger
}

// NewWishlistService wires the wishlist actions.
func NewWishlistService(gateway platform.Gateway, container *store.Container, logger *zap.Logger) *WishlistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WishlistService{gateway: gateway, container: container, logger: logger}
}

// Refresh re-pulls the whole wishlist.
func (s *WishlistService) Refresh(ctx context.Context) error {
	return s.do(ctx, "refresh", s.gateway.Wishlist)
}

// Add puts a product on the wishlist. Adding a product that is already
// listed is not an error; the platform returns the list unchanged.
func (s *WishlistService) Add(ctx context.Context, productID uuid.UUID) error {
	return s.do(ctx, "add", func(ctx context.Context) (*state.WishlistPatch, error) {
		return s.gateway.AddWishlistItem(ctx, productID)
	})
}

// Remove drops a product from the wishlist.
func (s *WishlistService) Remove(ctx context.Context, productID uuid.UUID) error {
	return s.do(ctx, "remove", func(ctx context.Context) (*state.WishlistPatch, error) {
		return s.gateway.RemoveWishlistItem(ctx, productID)
	})
}

func (s *WishlistService) do(ctx context.Context, method string, call func(context.Context) (*state.WishlistPatch, error)) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "wishlist", method)
	defer span.End()

	s.container.BeginWishlist()
	patch, err := call(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("wishlist operation failed", zap.String("op", method), zap.Error(err))
		s.container.FailWishlist(platform.ErrorMessage(err))
		return err
	}
	s.container.FinishWishlist(*patch)
	telemetry.SetOK(span)
	return nil
}
