package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStat is one row of the dashboard's top-seller table.
type ProductStat struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// AnalyticsState is the admin dashboard snapshot. Populated only for
// admin sessions; everyone else keeps the zero value.
type AnalyticsState struct {
	Revenue       decimal.Decimal `json:"revenue"`
	OrderCount    int             `json:"order_count"`
	PendingOrders int             `json:"pending_orders"`
	LowStockCount int             `json:"low_stock_count"`
	NewUsers      int             `json:"new_users"`
	TopProducts   []ProductStat   `json:"top_products"`
	RefreshedAt   time.Time       `json:"refreshed_at"`
	IsLoading     bool            `json:"is_loading"`
	Error         string          `json:"error"`
}

// Clone returns a deep copy.
func (s AnalyticsState) Clone() AnalyticsState {
	out := s
	if s.TopProducts != nil {
		out.TopProducts = make([]ProductStat, len(s.TopProducts))
		copy(out.TopProducts, s.TopProducts)
	}
	return out
}

// AnalyticsPatch is a partial dashboard update.
type AnalyticsPatch struct {
	Revenue       *decimal.Decimal `json:"revenue,omitempty"`
	OrderCount    *int             `json:"order_count,omitempty"`
	PendingOrders *int             `json:"pending_orders,omitempty"`
	LowStockCount *int             `json:"low_stock_count,omitempty"`
	NewUsers      *int             `json:"new_users,omitempty"`
	TopProducts   *[]ProductStat   `json:"top_products,omitempty"`
	RefreshedAt   *time.Time       `json:"refreshed_at,omitempty"`
}

// Merge folds the patch over the state and returns the result.
func (s AnalyticsState) Merge(p AnalyticsPatch) AnalyticsState {
	out := s.Clone()
	if p.Revenue != nil {
		out.Revenue = *p.Revenue
	}
	if p.OrderCount != nil {
		out.OrderCount = *p.OrderCount
	}
	if p.PendingOrders != nil {
		out.PendingOrders = *p.PendingOrders
	}
	if p.LowStockCount != nil {
		out.LowStockCount = *p.LowStockCount
	}
	if p.NewUsers != nil {
		out.NewUsers = *p.NewUsers
	}
	if p.TopProducts != nil {
		out.TopProducts = make([]ProductStat, len(*p.TopProducts))
		copy(out.TopProducts, *p.TopProducts)
	}
	if p.RefreshedAt != nil {
		out.RefreshedAt = *p.RefreshedAt
	}
	return out
}
