package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecommendedProduct is one entry of the personalized feed.
type RecommendedProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Reason    string          `json:"reason"`
	Score     float64         `json:"score"`
}

// RecommendationState holds the recommendation feed the platform's
// model produced for this session.
type RecommendationState struct {
	Items       []RecommendedProduct `json:"items"`
	GeneratedAt time.Time            `json:"generated_at"`
	IsLoading   bool                 `json:"is_loading"`
	Error       string               `json:"error"`
}

// Clone returns a deep copy.
func (s RecommendationState) Clone() RecommendationState {
	out := s
	if s.Items != nil {
		out.Items = make([]RecommendedProduct, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// RecommendationPatch is a partial recommendation update.
type RecommendationPatch struct {
	Items       *[]RecommendedProduct `json:"items,omitempty"`
	GeneratedAt *time.Time            `json:"generated_at,omitempty"`
}

// Merge folds the patch over the state and returns the result.
func (s RecommendationState) Merge(p RecommendationPatch) RecommendationState {
	out := s.Clone()
	if p.Items != nil {
		out.Items = make([]RecommendedProduct, len(*p.Items))
		copy(out.Items, *p.Items)
	}
	if p.GeneratedAt != nil {
		out.GeneratedAt = *p.GeneratedAt
	}
	return out
}
