package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/catalog"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

// Notifications fetches the newest-first feed for the signed-in account.
func (c *Client) Notifications(ctx context.Context) (*state.NotificationPatch, error) {
	var patch state.NotificationPatch
	if err := c.call(ctx, "notifications.refresh", http.MethodGet, "/api/notifications", nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// MarkNotificationRead flips one notification server-side. The local
// counter is adjusted by the caller; the channel echoes the change to
// other connected devices.
func (c *Client) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, "notifications.mark_read", http.MethodPatch, "/api/notifications/"+id.String()+"/read", nil, nil)
}

// MarkAllNotificationsRead flips the whole feed server-side.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.call(ctx, "notifications.mark_all_read", http.MethodPost, "/api/notifications/read-all", nil, nil)
}

// Analytics fetches the admin dashboard aggregates.
func (c *Client) Analytics(ctx context.Context) (*state.AnalyticsPatch, error) {
	var patch state.AnalyticsPatch
	if err := c.call(ctx, "analytics.refresh", http.MethodGet, "/api/admin/analytics", nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// Categories fetches the flat category list the tree is built from.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := c.call(ctx, "categories.list", http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

type moveCategoryRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// MoveCategory re-parents a category. The platform validates the move
// again and answers with the updated flat list; a cycle the local check
// missed comes back as a 409 with CIRCULAR_REFERENCE.
func (c *Client) MoveCategory(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := c.call(ctx, "categories.move", http.MethodPatch, "/api/admin/categories/"+id.String(),
		moveCategoryRequest{ParentID: newParentID}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
