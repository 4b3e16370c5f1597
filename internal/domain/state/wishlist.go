package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistItem is one saved product.
type WishlistItem struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ImageURL   string          `json:"image_url"`
	InStock    bool            `json:"in_stock"`
	VendorName string          `json:"vendor_name"`
	AddedAt    time.Time       `json:"added_at"`
}

// WishlistState mirrors the platform's wishlist.
type WishlistState struct {
	Items     []WishlistItem `json:"items"`
	IsLoading bool           `json:"is_loading"`
	Error     string         `json:"error"`
}

// Clone returns a deep copy.
func (s WishlistState) Clone() WishlistState {
	out := s
	if s.Items != nil {
		out.Items = make([]WishlistItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// Contains reports whether the product is on the wishlist.
func (s WishlistState) Contains(productID uuid.UUID) bool {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// WishlistPatch is a partial wishlist update.
type WishlistPatch struct {
	Items *[]WishlistItem `json:"items,omitempty"`
}

// Merge folds the patch over the state and returns the result.
func (s WishlistState) Merge(p WishlistPatch) WishlistState {
	out := s.Clone()
	if p.Items != nil {
		out.Items = make([]WishlistItem, len(*p.Items))
		copy(out.Items, *p.Items)
	}
	return out
}
