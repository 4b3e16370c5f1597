package state

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of the server-side cart.
type CartItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	StockCeiling int             `json:"stock_ceiling"`
	ImageURL     string          `json:"image_url"`
	VendorName   string          `json:"vendor_name"`
}

// CartState mirrors the platform's cart. Subtotal, Tax, Shipping and
// Total are server-computed; nothing in the client ever derives them
// from Items.
type CartState struct {
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	IsLoading bool            `json:"is_loading"`
	Error     string          `json:"error"`
}

// Clone returns a deep copy.
func (s CartState) Clone() CartState {
	out := s
	if s.Items != nil {
		out.Items = make([]CartItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// ItemCount sums line quantities, the number shown on the cart badge.
func (s CartState) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// CartPatch is a partial cart update. Present fields replace the
// current value whole; an explicit empty Items slice empties the cart.
type CartPatch struct {
	Items    *[]CartItem      `json:"items,omitempty"`
	Subtotal *decimal.Decimal `json:"subtotal,omitempty"`
	Tax      *decimal.Decimal `json:"tax,omitempty"`
	Shipping *decimal.Decimal `json:"shipping,omitempty"`
	Total    *decimal.Decimal `json:"total,omitempty"`
}

// Merge folds the patch over the state and returns the result.
func (s CartState) Merge(p CartPatch) CartState {
	out := s.Clone()
	if p.Items != nil {
		out.Items = make([]CartItem, len(*p.Items))
		copy(out.Items, *p.Items)
	}
	if p.Subtotal != nil {
		out.Subtotal = *p.Subtotal
	}
	if p.Tax != nil {
		out.Tax = *p.Tax
	}
	if p.Shipping != nil {
		out.Shipping = *p.Shipping
	}
	if p.Total != nil {
		out.Total = *p.Total
	}
	return out
}
