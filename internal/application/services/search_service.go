package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/query/search"
)

const (
	defaultSuggestLimit = 8
	maxSuggestLimit     = 25
)

// SearchService filters the public directory. Search always scans the
// active listings so its results agree with the browse pages; the
// suggestion index only backs the type-ahead.
type SearchService struct {
	directory  *DirectoryService
	searchRepo repositories.FacilitySearchRepository
}

// NewSearchService creates a new search service. searchRepo may be nil.
func NewSearchService(directory *DirectoryService, searchRepo repositories.FacilitySearchRepository) *SearchService {
	return &SearchService{
		directory:  directory,
		searchRepo: searchRepo,
	}
}

// Search returns the active facilities matching the query text, type slug
// and region. Empty or "all" inputs do not filter; an unknown type simply
// matches nothing.
func (s *SearchService) Search(ctx context.Context, query, typeSlug, region string) ([]entities.FacilitySummary, error) {
	facilities, err := s.directory.GetAllFacilities(ctx, entities.FacilityStatusActive)
	if err != nil {
		return nil, err
	}
	return entities.Summaries(search.Filter(facilities, search.NewCriteria(query, typeSlug, region))), nil
}

// Suggest returns up to limit facilities for a type-ahead query. The index
// is tried first; when it is absent or failing the directory is filtered
// in memory instead.
func (s *SearchService) Suggest(ctx context.Context, query string, limit int) ([]entities.FacilitySummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entities.FacilitySummary{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	if s.searchRepo != nil {
		suggestions, err := s.searchRepo.Suggest(ctx, query, limit)
		if err == nil {
			return suggestions, nil
		}
		log.Warn().Err(err).Str("query", query).Msg("suggest index failed, falling back to directory scan")
	}

	results, err := s.Search(ctx, query, "", "")
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
