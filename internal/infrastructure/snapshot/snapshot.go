// Package snapshot persists a warm-boot image of the session state.
//
// One JSON document per profile, versioned as a whole: loaders accept
// the current layout and report everything else as no snapshot rather
// than guessing at a migration. Transient fields (loading flags, error
// slots, channel status) are not part of the document, so a restored
// session always comes up idle.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

// CurrentVersion is the document layout version. Bump it whenever a
// field changes meaning; old documents are then discarded on load.
const CurrentVersion = 1

// Snapshot is the persisted subset of the session state.
type Snapshot struct {
	Version         int              `json:"version"`
	SavedAt         time.Time        `json:"saved_at"`
	Identity        *state.Identity  `json:"identity,omitempty"`
	Token           string           `json:"token,omitempty"`
	AuthStatus      state.AuthStatus `json:"auth_status"`
	Cart            Cart             `json:"cart"`
	Wishlist        Wishlist         `json:"wishlist"`
	Notifications   Notifications    `json:"notifications"`
	Recommendations Recommendations  `json:"recommendations"`
	Analytics       Analytics        `json:"analytics"`
	Search          Search           `json:"search"`
}

// Cart is the persisted cart slice. Totals are carried as the server
// computed them; nothing re-derives them on restore.
type Cart struct {
	Items    []state.CartItem `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
	Tax      decimal.Decimal  `json:"tax"`
	Shipping decimal.Decimal  `json:"shipping"`
	Total    decimal.Decimal  `json:"total"`
}

// Wishlist is the persisted wishlist slice.
type Wishlist struct {
	Items []state.WishlistItem `json:"items"`
}

// Notifications is the persisted feed. UnreadCount is stored for
// inspection tooling but recomputed from Items on every load.
type Notifications struct {
	Items       []state.Notification `json:"items"`
	UnreadCount int                  `json:"unread_count"`
}

// Recommendations is the persisted recommendation feed.
type Recommendations struct {
	Items       []state.RecommendedProduct `json:"items"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// Analytics is the persisted admin dashboard slice.
type Analytics struct {
	Revenue       decimal.Decimal     `json:"revenue"`
	OrderCount    int                 `json:"order_count"`
	PendingOrders int                 `json:"pending_orders"`
	LowStockCount int                 `json:"low_stock_count"`
	NewUsers      int                 `json:"new_users"`
	TopProducts   []state.ProductStat `json:"top_products"`
	RefreshedAt   time.Time           `json:"refreshed_at"`
}

// Search is the persisted last search.
type Search struct {
	Query      string                 `json:"query"`
	CategoryID *uuid.UUID             `json:"category_id,omitempty"`
	Page       int                    `json:"page"`
	Results    []state.ProductSummary `json:"results"`
	TotalHits  int                    `json:"total_hits"`
}

// New returns an empty snapshot stamped with the current version.
func New() *Snapshot {
	return &Snapshot{
		Version:    CurrentVersion,
		SavedAt:    time.Now().UTC(),
		AuthStatus: state.AuthStatusAnonymous,
	}
}

// Normalize repairs derived fields after a load. The unread counter is
// recomputed from the items so a stale or hand-edited document can
// never smuggle in a wrong count.
func (s *Snapshot) Normalize() {
	unread := 0
	for _, n := range s.Notifications.Items {
		if !n.IsRead {
			unread++
		}
	}
	s.Notifications.UnreadCount = unread
}

// Authenticated reports whether the snapshot carries a credential
// worth restoring.
func (s *Snapshot) Authenticated() bool {
	return s != nil && s.AuthStatus == state.AuthStatusAuthenticated && s.Token != ""
}

// Store persists one snapshot per profile. Load reports a missing or
// unreadable snapshot as (nil, nil); a non-nil error means the backend
// itself failed and retrying may help. Clear is idempotent.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
	Close() error
}

func encodeDocument(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("snapshot: nil snapshot")
	}
	doc, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return doc, nil
}

// decodeDocument parses a stored document. Corrupt payloads and
// unknown layout versions come back as nil so the caller boots from a
// cold cache instead of failing startup.
func decodeDocument(raw []byte, logger *zap.Logger) *Snapshot {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.Warn("discarding corrupt snapshot document", zap.Error(err))
		return nil
	}
	if snap.Version != CurrentVersion {
		logger.Warn("discarding snapshot with unknown layout version",
			zap.Int("version", snap.Version),
			zap.Int("supported", CurrentVersion))
		return nil
	}
	snap.Normalize()
	return &snap
}
