package state

import (
	"time"

	"github.com/google/uuid"
)

// MaxNotifications caps the in-memory feed. Older entries fall off the
// tail; the platform keeps the full history server-side.
const MaxNotifications = 100

// Notification is one feed entry as pushed by the platform.
type Notification struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id"`
	Content         string     `json:"content"`
	Type            string     `json:"type"`
	IsRead          bool       `json:"is_read"`
	RelatedEntityID *uuid.UUID `json:"related_entity_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NotificationState holds the feed, newest first, capped at
// MaxNotifications. UnreadCount is maintained incrementally on every
// mutation and always equals the number of unread items in Items.
type NotificationState struct {
	Items       []Notification `json:"items"`
	UnreadCount int            `json:"unread_count"`
	IsLoading   bool           `json:"is_loading"`
	Error       string         `json:"error"`
}

// Clone returns a deep copy.
func (s NotificationState) Clone() NotificationState {
	out := s
	if s.Items != nil {
		out.Items = make([]Notification, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// Push prepends a notification, trims the feed to MaxNotifications and
// adjusts UnreadCount for both the new entry and any trimmed ones.
func (s NotificationState) Push(n Notification) NotificationState {
	out := s.Clone()
	out.Items = append([]Notification{n}, out.Items...)
	if !n.IsRead {
		out.UnreadCount++
	}
	for len(out.Items) > MaxNotifications {
		dropped := out.Items[len(out.Items)-1]
		out.Items = out.Items[:len(out.Items)-1]
		if !dropped.IsRead {
			out.UnreadCount--
		}
	}
	return out
}

// MarkRead flips one entry to read. Unknown IDs are a no-op.
func (s NotificationState) MarkRead(id uuid.UUID) NotificationState {
	out := s.Clone()
	for i := range out.Items {
		if out.Items[i].ID != id {
			continue
		}
		if !out.Items[i].IsRead {
			out.Items[i].IsRead = true
			out.UnreadCount--
		}
		break
	}
	return out
}

// MarkAllRead flips every entry to read.
func (s NotificationState) MarkAllRead() NotificationState {
	out := s.Clone()
	for i := range out.Items {
		out.Items[i].IsRead = true
	}
	out.UnreadCount = 0
	return out
}

// NotificationPatch replaces the whole feed, typically from a REST
// refresh. The unread counter is recomputed from the new slice, the
// one place a full scan happens.
type NotificationPatch struct {
	Items *[]Notification `json:"items,omitempty"`
}

// Merge folds the patch over the state and returns the result.
func (s NotificationState) Merge(p NotificationPatch) NotificationState {
	out := s.Clone()
	if p.Items != nil {
		items := *p.Items
		if len(items) > MaxNotifications {
			items = items[:MaxNotifications]
		}
		out.Items = make([]Notification, len(items))
		copy(out.Items, items)
		out.UnreadCount = 0
		for _, n := range out.Items {
			if !n.IsRead {
				out.UnreadCount++
			}
		}
	}
	return out
}

// ReadReceipt is the read-state change pushed as notification.updated.
// All marks the whole feed; otherwise ID names a single entry.
type ReadReceipt struct {
	ID  *uuid.UUID `json:"id,omitempty"`
	All bool       `json:"all,omitempty"`
}

// ApplyReadReceipt applies a pushed read-state change.
func (s NotificationState) ApplyReadReceipt(r ReadReceipt) NotificationState {
	if r.All {
		return s.MarkAllRead()
	}
	if r.ID != nil {
		return s.MarkRead(*r.ID)
	}
	return s.Clone()
}
