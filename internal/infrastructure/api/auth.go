package api

import (
	"context"
	"net/http"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

// sessionResponse is the body of /api/auth/login and /api/auth/register.
type sessionResponse struct {
	Token string         `json:"token"`
	User  state.Identity `json:"user"`
}

// Login exchanges credentials for a bearer token and the account identity.
func (c *Client) Login(ctx context.Context, creds platform.Credentials) (*platform.Session, error) {
	if err := c.validateInput(creds); err != nil {
		return nil, err
	}

	var resp sessionResponse
	if err := c.call(ctx, "auth.login", http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &platform.Session{Token: resp.Token, Identity: resp.User}, nil
}

// Register creates an account. The platform signs the new user in
// immediately, so the response carries a session.
func (c *Client) Register(ctx context.Context, reg platform.Registration) (*platform.Session, error) {
	if err := c.validateInput(reg); err != nil {
		return nil, err
	}

	var resp sessionResponse
	if err := c.call(ctx, "auth.register", http.MethodPost, "/api/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	return &platform.Session{Token: resp.Token, Identity: resp.User}, nil
}

// CurrentUser resolves the held token into the account it belongs to.
// A 401/403 here means the stored session is stale.
func (c *Client) CurrentUser(ctx context.Context) (*state.Identity, error) {
	var identity state.Identity
	if err := c.call(ctx, "auth.me", http.MethodGet, "/api/auth/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout invalidates the token server-side. Sign-out treats failures as
// best-effort; local state is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, "auth.logout", http.MethodPost, "/api/auth/logout", nil, nil)
}
