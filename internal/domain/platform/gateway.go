// Package platform defines the client's contract with the e-commerce
// platform: the REST gateway the action services call and the errors
// it reports. The concrete HTTP implementation lives in
// infrastructure/api.
package platform

import (
	"context"

	"github.com/google/uuid"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/catalog"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

// Credentials is the login input.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Registration is the sign-up input.
type Registration struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Session is what a successful login or registration yields.
type Session struct {
	Token    string
	Identity state.Identity
}

// SearchQuery selects a page of the product catalog.
type SearchQuery struct {
	Query      string     `json:"query" validate:"max=200"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Page       int        `json:"page" validate:"min=0"`
}

// Gateway is the platform REST API as the runtime consumes it. Every
// state-carrying response comes back as a patch; callers fold it into
// the container unchanged, the server's numbers are authoritative.
type Gateway interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Register(ctx context.Context, reg Registration) (*Session, error)
	CurrentUser(ctx context.Context) (*state.Identity, error)
	Logout(ctx context.Context) error

	Cart(ctx context.Context) (*state.CartPatch, error)
	AddCartItem(ctx context.Context, productID uuid.UUID, quantity int) (*state.CartPatch, error)
	UpdateCartItem(ctx context.Context, productID uuid.UUID, quantity int) (*state.CartPatch, error)
	RemoveCartItem(ctx context.Context, productID uuid.UUID) (*state.CartPatch, error)

	Wishlist(ctx context.Context) (*state.WishlistPatch, error)
	AddWishlistItem(ctx context.Context, productID uuid.UUID) (*state.WishlistPatch, error)
	RemoveWishlistItem(ctx context.Context, productID uuid.UUID) (*state.WishlistPatch, error)

	Notifications(ctx context.Context) (*state.NotificationPatch, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context) error

	Recommendations(ctx context.Context) (*state.RecommendationPatch, error)
	Analytics(ctx context.Context) (*state.AnalyticsPatch, error)
	SearchProducts(ctx context.Context, q SearchQuery) (*state.SearchPatch, error)

	Categories(ctx context.Context) ([]catalog.Category, error)
	MoveCategory(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) ([]catalog.Category, error)
}

// TokenSource supplies the current bearer credential, empty for
// anonymous sessions. Implemented by the state container.
type TokenSource interface {
	Token() string
}

// LiveChannel is the push transport as the session layer drives it.
// Open is a no-op while a connection is live or a dial is in flight;
// Close is idempotent and stops reconnection until the next Open.
type LiveChannel interface {
	Open(token string)
	Close()
}
