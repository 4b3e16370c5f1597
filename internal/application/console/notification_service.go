package console

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

// NotificationService drives the notification feed. New entries arrive
// by push; this service covers the pull side: the initial load and the
// read-state mutations.
type NotificationService struct {
	gateway   platform.Gateway
	container *store.Container
	logger    *zap.Logger
}

// NewNotificationService wires the feed actions.
func NewNotificationService(gateway platform.Gateway, container *store.Container, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{gateway: gateway, container: container, logger: logger}
}

// Refresh re-pulls the whole feed.
func (s *NotificationService) Refresh(ctx context.Context) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "notifications", "refresh")
	defer span.End()

	s.container.BeginNotifications()
	patch, err := s.gateway.Notifications(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("notification refresh failed", zap.Error(err))
		s.container.FailNotifications(platform.ErrorMessage(err))
		return err
	}
	s.container.FinishNotifications(*patch)
	telemetry.SetOK(span)
	return nil
}

// MarkRead flips one entry. The platform returns no body on success;
// the local flip is the authoritative result, and the push receipt
// that may follow is idempotent.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "notifications", "mark_read")
	defer span.End()

	s.container.BeginNotifications()
	if err := s.gateway.MarkNotificationRead(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("mark notification read failed", zap.String("id", id.String()), zap.Error(err))
		s.container.FailNotifications(platform.ErrorMessage(err))
		return err
	}
	s.container.MarkNotificationRead(id)
	telemetry.SetOK(span)
	return nil
}

// MarkAllRead flips the whole feed.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "notifications", "mark_all_read")
	defer span.End()

	s.container.BeginNotifications()
	if err := s.gateway.MarkAllNotificationsRead(ctx); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("mark all notifications read failed", zap.Error(err))
		s.container.FailNotifications(platform.ErrorMessage(err))
		return err
	}
	s.container.MarkAllNotificationsRead()
	telemetry.SetOK(span)
	return nil
}

// RegisterRefetch re-pulls the feed after a reconnect; notifications
// pushed during the gap are lost, the feed endpoint is the recovery.
func (s *NotificationService) RegisterRefetch(reg HookRegistrar) {
	reg.OnReconnect("notifications", func(ctx context.Context) error {
		if !s.container.Authenticated() {
			return nil
		}
		return s.Refresh(ctx)
	})
}
