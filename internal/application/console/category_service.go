package console

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/catalog"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

// CategoryService maintains the category editor's working set: the
// flat list last served by the platform and the display tree built
// from it. The working set lives here, not in the state container,
// because the editor is its only consumer. Safe for concurrent use.
type CategoryService struct {
	gateway platform.Gateway
	logger  *zap.Logger

	mu   sync.RWMutex
	flat []catalog.Category
}

// NewCategoryService wires the category editor.
func NewCategoryService(gateway platform.Gateway, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{gateway: gateway, logger: logger}
}

// LoadTree pulls the flat list and builds the display tree.
func (s *CategoryService) LoadTree(ctx context.Context) ([]*catalog.TreeNode, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "categories", "load_tree")
	defer span.End()

	flat, err := s.gateway.Categories(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("category load failed", zap.Error(err))
		return nil, err
	}

	tree, err := s.rebuild(flat)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.mu.Lock()
	s.flat = flat
	s.mu.Unlock()
	telemetry.SetOK(span)
	return tree, nil
}

// Move re-parents a category. Moves that would make a category its own
// ancestor, or push the tree past the depth limit, are rejected here
// before any network call; the platform re-checks anyway. On success
// the platform returns the updated flat list and the rebuilt tree is
// returned.
func (s *CategoryService) Move(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) ([]*catalog.TreeNode, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "categories", "move")
	defer span.End()

	s.mu.RLock()
	flat := make([]catalog.Category, len(s.flat))
	copy(flat, s.flat)
	s.mu.RUnlock()

	if err := catalog.ValidateMove(flat, id, newParentID); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("category move rejected locally",
			zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	updated, err := s.gateway.MoveCategory(ctx, id, newParentID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("category move failed", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	tree, err := s.rebuild(updated)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.mu.Lock()
	s.flat = updated
	s.mu.Unlock()
	telemetry.SetOK(span)
	return tree, nil
}

// Tree rebuilds the display tree from the cached flat list without a
// network call.
func (s *CategoryService) Tree() ([]*catalog.TreeNode, error) {
	s.mu.RLock()
	flat := make([]catalog.Category, len(s.flat))
	copy(flat, s.flat)
	s.mu.RUnlock()
	return s.rebuild(flat)
}

// rebuild builds the tree and logs categories that were promoted to
// roots because their parent is missing from the list.
func (s *CategoryService) rebuild(flat []catalog.Category) ([]*catalog.TreeNode, error) {
	tree, err := catalog.BuildTree(flat)
	if err != nil {
		return nil, err
	}
	for _, root := range tree {
		if root.ParentID != nil {
			s.logger.Warn("category parent missing, promoted to root",
				zap.String("id", root.ID.String()),
				zap.String("name", root.Name),
				zap.String("parent_id", root.ParentID.String()))
		}
	}
	return tree, nil
}
