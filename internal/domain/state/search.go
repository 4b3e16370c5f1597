package state

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSummary is one search hit.
type ProductSummary struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ImageURL   string          `json:"image_url"`
	InStock    bool            `json:"in_stock"`
	VendorName string          `json:"vendor_name"`
	Rating     float64         `json:"rating"`
}

// SearchState holds the last executed product search. Query is stored
// case-folded so repeated searches compare equal regardless of input
// casing.
type SearchState struct {
	Query      string           `json:"query"`
	CategoryID *uuid.UUID       `json:"category_id"`
	Page       int              `json:"page"`
	Results    []ProductSummary `json:"results"`
	TotalHits  int              `json:"total_hits"`
	IsLoading  bool             `json:"is_loading"`
	Error      string           `json:"error"`
}

// Clone returns a deep copy.
func (s SearchState) Clone() SearchState {
	out := s
	if s.CategoryID != nil {
		id := *s.CategoryID
		out.CategoryID = &id
	}
	if s.Results != nil {
		out.Results = make([]ProductSummary, len(s.Results))
		copy(out.Results, s.Results)
	}
	return out
}

// SearchPatch is a partial search-state update, pushed when inventory
// changes invalidate displayed results.
type SearchPatch struct {
	Query      *string           `json:"query,omitempty"`
	CategoryID *uuid.UUID        `json:"category_id,omitempty"`
	Page       *int              `json:"page,omitempty"`
	Results    *[]ProductSummary `json:"results,omitempty"`
	TotalHits  *int              `json:"total_hits,omitempty"`
}

// Merge folds the patch over the state and returns the result.
func (s SearchState) Merge(p SearchPatch) SearchState {
	out := s.Clone()
	if p.Query != nil {
		out.Query = *p.Query
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		out.CategoryID = &id
	}
	if p.Page != nil {
		out.Page = *p.Page
	}
	if p.Results != nil {
		out.Results = make([]ProductSummary, len(*p.Results))
		copy(out.Results, *p.Results)
	}
	if p.TotalHits != nil {
		out.TotalHits = *p.TotalHits
	}
	return out
}
