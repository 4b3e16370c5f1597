// Package console holds the operator-facing action services: the
// admin analytics dashboard, the notification feed and the category
// editor. Analytics and notifications follow the same
// request-then-merge shape as the storefront; the category editor
// keeps its working set locally because no other consumer reads it.
package console

import (
	"context"

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

// AnalyticsService pulls the admin dashboard numbers. The platform
// computes everything; non-admin sessions get a 403 and the error slot
// says so.
type AnalyticsService struct {
	gateway   platform.Gateway
	container *store.Container
	logger    *zap.Logger
}

// NewAnalyticsService wires the dashboard refresh.
func NewAnalyticsService(gateway platform.Gateway, container *store.Container, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{gateway: gateway, container: container, logger: logger}
}

// Refresh re-pulls the dashboard.
func (s *AnalyticsService) Refresh(ctx context.Context) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "analytics", "refresh")
	defer span.End()

	s.container.BeginAnalytics()
	patch, err := s.gateway.Analytics(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("analytics refresh failed", zap.Error(err))
		s.container.FailAnalytics(platform.ErrorMessage(err))
		return err
	}
	s.container.FinishAnalytics(*patch)
	telemetry.SetOK(span)
	return nil
}

// RegisterRefetch re-pulls the dashboard after a reconnect, once per
// re-connect. Sessions that cannot see admin analytics skip the pull;
// the platform would only 403 them.
func (s *AnalyticsService) RegisterRefetch(reg HookRegistrar) {
	reg.OnReconnect("analytics", func(ctx context.Context) error {
		auth := s.container.Auth()
		if !auth.Authenticated() || auth.Identity == nil || auth.Identity.Role != state.RoleAdmin {
			return nil
		}
		return s.Refresh(ctx)
	})
}
