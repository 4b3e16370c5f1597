package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

type cartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// Cart fetches the authoritative cart, server-computed totals included.
func (c *Client) Cart(ctx context.Context) (*state.CartPatch, error) {
	var patch state.CartPatch
	if err := c.call(ctx, "cart.refresh", http.MethodGet, "/api/cart", nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// AddCartItem adds quantity of a product. The response is the full cart.
func (c *Client) AddCartItem(ctx context.Context, productID uuid.UUID, quantity int) (*state.CartPatch, error) {
	var patch state.CartPatch
	if err := c.call(ctx, "cart.add_item", http.MethodPost, "/api/cart/items",
		cartItemRequest{ProductID: productID, Quantity: quantity}, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// UpdateCartItem sets the quantity of a cart line outright.
func (c *Client) UpdateCartItem(ctx context.Context, productID uuid.UUID, quantity int) (*state.CartPatch, error) {
	var patch state.CartPatch
	if err := c.call(ctx, "cart.update_item", http.MethodPatch, "/api/cart/items/"+productID.String(),
		quantityRequest{Quantity: quantity}, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// RemoveCartItem drops a line from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID uuid.UUID) (*state.CartPatch, error) {
	var patch state.CartPatch
	if err := c.call(ctx, "cart.remove_item", http.MethodDelete, "/api/cart/items/"+productID.String(), nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// Wishlist fetches the saved-products list.
func (c *Client) Wishlist(ctx context.Context) (*state.WishlistPatch, error) {
	var patch state.WishlistPatch
	if err := c.call(ctx, "wishlist.refresh", http.MethodGet, "/api/wishlist", nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// AddWishlistItem saves a product. Adding one that is already saved is a
// no-op server-side and still returns the full list.
func (c *Client) AddWishlistItem(ctx context.Context, productID uuid.UUID) (*state.WishlistPatch, error) {
	var patch state.WishlistPatch
	if err := c.call(ctx, "wishlist.add_item", http.MethodPost, "/api/wishlist/"+productID.String(), nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// RemoveWishlistItem unsaves a product.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID uuid.UUID) (*state.WishlistPatch, error) {
	var patch state.WishlistPatch
	if err := c.call(ctx, "wishlist.remove_item", http.MethodDelete, "/api/wishlist/"+productID.String(), nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// Recommendations fetches the AI picks for the signed-in customer.
func (c *Client) Recommendations(ctx context.Context) (*state.RecommendationPatch, error) {
	var patch state.RecommendationPatch
	if err := c.call(ctx, "recommendations.refresh", http.MethodGet, "/api/recommendations", nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// SearchProducts runs a catalog search. The response carries the page of
// results plus the total hit count.
func (c *Client) SearchProducts(ctx context.Context, q platform.SearchQuery) (*state.SearchPatch, error) {
	if err := c.validateInput(q); err != nil {
		return nil, err
	}

	vals := url.Values{}
	if q.Query != "" {
		vals.Set("query", q.Query)
	}
	if q.CategoryID != nil {
		vals.Set("category_id", q.CategoryID.String())
	}
	if q.Page > 0 {
		vals.Set("page", strconv.Itoa(q.Page))
	}

	path := "/api/products"
	if enc := vals.Encode(); enc != "" {
		path += "?" + enc
	}

	var patch state.SearchPatch
	if err := c.call(ctx, "search.products", http.MethodGet, path, nil, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}
