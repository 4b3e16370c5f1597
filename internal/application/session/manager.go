// Package session owns the credential lifecycle: sign-in, sign-up,
// boot-time restore, voluntary and forced sign-out. It is the only
// component that opens or closes the live channel, so channel identity
// always follows the credential.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/auth"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

// Manager drives the session slice through the platform's auth
// endpoints. All methods are safe for concurrent use; concurrent
// authentications are not serialized beyond the container's
// atomicity, the last response to land wins.
type Manager struct {
	gateway   platform.Gateway
	container *store.Container
	channel   platform.LiveChannel
	logger    *zap.Logger
}

// NewManager wires the session manager.
func NewManager(gateway platform.Gateway, container *store.Container, channel platform.LiveChannel, logger *zap.Logger) (*Manager, error) {
	if gateway == nil {
		return nil, errors.New("session: gateway is required")
	}
	if container == nil {
		return nil, errors.New("session: container is required")
	}
	if channel == nil {
		return nil, errors.New("session: channel is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		gateway:   gateway,
		container: container,
		channel:   channel,
		logger:    logger,
	}, nil
}

// Authenticate signs in with email and password. On success the
// container holds the new credential and the live channel is keyed to
// it; a prior session's channel is closed first. On failure the
// session drops to anonymous with a human-readable reason in the
// error slot, and the error is returned for callers that branch.
func (m *Manager) Authenticate(ctx context.Context, email, password string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "authenticate")
	defer span.End()

	m.container.BeginAuth()
	sess, err := m.gateway.Login(ctx, platform.Credentials{Email: email, Password: password})
	if err != nil {
		telemetry.RecordError(span, err)
		m.container.FailAuth(platform.ErrorMessage(err))
		return err
	}
	m.installSession(sess)
	m.logger.Info("session authenticated",
		zap.String("user_id", sess.Identity.ID.String()),
		zap.String("role", string(sess.Identity.Role)))
	return nil
}

// Register signs up a new account. The platform returns the same
// session envelope as login, so a successful registration is an
// authenticated session.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "register")
	defer span.End()

	m.container.BeginAuth()
	sess, err := m.gateway.Register(ctx, platform.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		telemetry.RecordError(span, err)
		m.container.FailAuth(platform.ErrorMessage(err))
		return err
	}
	m.installSession(sess)
	m.logger.Info("session registered",
		zap.String("user_id", sess.Identity.ID.String()))
	return nil
}

// installSession commits the credential and re-keys the channel. The
// old channel closes first so one session never reads another's
// events.
func (m *Manager) installSession(sess *platform.Session) {
	m.channel.Close()
	m.container.CompleteAuth(sess.Identity, sess.Token)
	m.channel.Open(sess.Token)
}

// RestoreSession validates a persisted credential at boot. Expired
// and platform-rejected tokens clear silently: session expiry is not
// an error. Only transport failures surface, and those leave the
// credential in place so the next boot retries.
func (m *Manager) RestoreSession(ctx context.Context) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "restore")
	defer span.End()

	token := m.container.Token()
	if token == "" {
		return nil
	}
	if auth.Expired(token, time.Now()) {
		m.logger.Info("persisted token expired, starting anonymous")
		m.container.ClearCredential()
		return nil
	}

	m.container.BeginAuth()
	identity, err := m.gateway.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, platform.ErrUnauthorized) {
			m.logger.Info("platform rejected persisted token, starting anonymous")
			m.container.ClearCredential()
			return nil
		}
		telemetry.RecordError(span, err)
		m.container.RecordAuthError(platform.ErrorMessage(err))
		return err
	}

	m.container.RefreshIdentity(*identity)
	m.channel.Open(token)
	m.logger.Info("session restored",
		zap.String("user_id", identity.ID.String()),
		zap.String("role", string(identity.Role)))
	return nil
}

// SignOut ends the session. The platform logout is best-effort; local
// teardown never blocks on it.
func (m *Manager) SignOut(ctx context.Context) {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "sign_out")
	defer span.End()

	if err := m.gateway.Logout(ctx); err != nil {
		m.logger.Warn("platform logout failed, discarding session locally", zap.Error(err))
	}
	m.channel.Close()
	m.container.SignOutReset()
	m.logger.Info("session signed out")
}

// ForcedSignOut tears the session down without user action, invoked
// when the platform blocks the current identity. No logout call: the
// credential is already dead. The reason lands in the auth error slot
// so the embedding UI can explain the exit.
func (m *Manager) ForcedSignOut(reason string) {
	m.logger.Warn("forced sign-out", zap.String("reason", reason))
	m.channel.Close()
	m.container.SignOutReset()
	m.container.FailAuth(reason)
}
