package storefront

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

// SearchService runs product searches. Queries are trimmed and
// Unicode case-folded before they go to the wire, so "Kettle" and
// "kettle" execute as the same search and compare equal in state.
type SearchService struct {
	gateway   platform.Gateway
	container *store.Container
	logger    *zap.Logger
}

// NewSearchService wires the search actions.
func NewSearchService(gateway platform.Gateway, container *store.Container, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{gateway: gateway, container: container, logger: logger}
}

// Search executes a catalog search. A nil categoryID searches every
// category and clears any previous filter; negative pages are treated
// as the first page.
func (s *SearchService) Search(ctx context.Context, query string, categoryID *uuid.UUID, page int) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "search", "search")
	defer span.End()

	folded := cases.Fold().String(strings.TrimSpace(query))
	if page < 0 {
		page = 0
	}

	s.container.BeginSearch()
	patch, err := s.gateway.SearchProducts(ctx, platform.SearchQuery{
		Query:      folded,
		CategoryID: categoryID,
		Page:       page,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("search failed", zap.String("query", folded), zap.Error(err))
		s.container.FailSearch(platform.ErrorMessage(err))
		return err
	}
	s.container.FinishSearchQuery(folded, categoryID, page, *patch)
	telemetry.SetOK(span)
	return nil
}

// Clear resets the search slice locally. No platform call: search
// results are never server-side session state.
func (s *SearchService) Clear() {
	s.container.ClearSearch()
}
