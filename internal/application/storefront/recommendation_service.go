package storefront

import (
	"context"

	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

// RecommendationService pulls the AI-generated product feed. The feed
// is recomputed server-side; the client only ever refreshes and
// receives pushes.
type RecommendationService struct {
	gateway   platform.Gateway
	container *store.Container
	logger    *zap.Logger
}

// NewRecommendationService wires the recommendation refresh.
func NewRecommendationService(gateway platform.Gateway, container *store.Container, logger *zap.Logger) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{gateway: gateway, container: container, logger: logger}
}

// Refresh re-pulls the recommendation feed.
func (s *RecommendationService) Refresh(ctx context.Context) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "recommendations", "refresh")
	defer span.End()

	s.container.BeginRecommendations()
	patch, err := s.gateway.Recommendations(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("recommendation refresh failed", zap.Error(err))
		s.container.FailRecommendations(platform.ErrorMessage(err))
		return err
	}
	s.container.FinishRecommendations(*patch)
	telemetry.SetOK(span)
	return nil
}
