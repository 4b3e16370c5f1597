// Package catalog holds the category hierarchy logic the admin console
// runs client-side: building a display tree from the flat list the
// platform returns, and validating re-parenting before it is submitted.
package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of the category hierarchy.
const MaxCategoryDepth = 5

// Category is one entry of the flat list served by the platform.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	SortOrder int        `json:"sort_order"`
	Active    bool       `json:"active"`
}

// IsRoot reports whether the category sits at the top level.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// ValidateMove checks a proposed re-parenting against the current flat
// list. It rejects moves that would make a category its own ancestor
// and moves that would exceed MaxCategoryDepth. A nil newParentID
// promotes the category to the top level, which is always structurally
// valid.
func ValidateMove(categories []Category, id uuid.UUID, newParentID *uuid.UUID) error {
	byID := indexByID(categories)

	if _, ok := byID[id]; !ok {
		return shared.NewDomainError("NOT_FOUND", "Category not found")
	}
	if newParentID == nil {
		return nil
	}
	parent, ok := byID[*newParentID]
	if !ok {
		return shared.NewDomainError("INVALID_PARENT", "Parent category not found")
	}
	if *newParentID == id {
		return shared.ErrCircularReference
	}
	if isDescendantOf(byID, *newParentID, id) {
		return shared.ErrCircularReference
	}
	if depth := depthOf(byID, parent); depth+1 >= MaxCategoryDepth {
		return shared.NewDomainError("MAX_DEPTH_EXCEEDED",
			fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}
	return nil
}

// WouldCreateCycle reports whether re-parenting id under newParentID
// makes the category an ancestor of itself.
func WouldCreateCycle(categories []Category, id, newParentID uuid.UUID) bool {
	if id == newParentID {
		return true
	}
	return isDescendantOf(indexByID(categories), newParentID, id)
}

func indexByID(categories []Category) map[uuid.UUID]Category {
	byID := make(map[uuid.UUID]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID
}

// isDescendantOf walks the parent chain from candidate looking for
// ancestor. The step cap bounds the walk when the input already
// contains a cycle.
func isDescendantOf(byID map[uuid.UUID]Category, candidate, ancestor uuid.UUID) bool {
	current, ok := byID[candidate]
	for steps := 0; ok && steps <= len(byID); steps++ {
		if current.ParentID == nil {
			return false
		}
		if *current.ParentID == ancestor {
			return true
		}
		current, ok = byID[*current.ParentID]
	}
	return false
}

// depthOf returns the zero-based level of a category, walking up to
// the root. Broken chains count as roots.
func depthOf(byID map[uuid.UUID]Category, c Category) int {
	depth := 0
	for steps := 0; c.ParentID != nil && steps <= len(byID); steps++ {
		parent, ok := byID[*c.ParentID]
		if !ok {
			break
		}
		depth++
		c = parent
	}
	return depth
}
