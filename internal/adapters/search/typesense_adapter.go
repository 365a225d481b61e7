package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	tsclient "github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/typesense"
)

const maxSuggestions = 25

// TypesenseAdapter implements the suggestion index using Typesense. Only
// active facilities are indexed.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements FacilitySearchRepository
var _ repositories.FacilitySearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a facility document. Inactive facilities are removed
// instead so moderation changes propagate through one call.
func (a *TypesenseAdapter) Index(ctx context.Context, facility *entities.Facility) error {
	if !facility.IsActive() {
		return a.Delete(ctx, facility.ID)
	}

	_, err := a.client.Client().Collection(a.client.Collection()).Documents().Upsert(ctx, facilityDocument(facility))
	if err != nil {
		return fmt.Errorf("failed to index facility: %w", err)
	}
	return nil
}

// Delete removes a facility from index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(a.client.Collection()).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete facility from index: %w", err)
	}
	return nil
}

// Suggest runs a prefix search over name, city and region
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]entities.FacilitySummary, error) {
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,city,region"),
		SortBy:  pointer.String("_text_match:desc,review_count:desc"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(a.client.Collection()).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search facilities: %w", err)
	}

	suggestions := []entities.FacilitySummary{}
	if result.Hits == nil {
		return suggestions, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		suggestions = append(suggestions, summaryFromDocument(*hit.Document))
	}
	return suggestions, nil
}

func facilityDocument(f *entities.Facility) map[string]interface{} {
	doc := map[string]interface{}{
		"id":           f.ID,
		"name":         f.Name,
		"slug":         f.Slug,
		"city":         f.City,
		"region":       f.Region,
		"region_abbr":  f.RegionAbbr,
		"type":         f.Type,
		"type_slug":    f.TypeSlug,
		"review_count": f.ReviewCountValue(),
	}
	if f.Address != "" {
		doc["address"] = f.Address
	}
	if f.Photo != "" {
		doc["photo"] = f.Photo
	}
	if f.Rating != nil {
		doc["rating"] = *f.Rating
	}
	return doc
}

func summaryFromDocument(doc map[string]interface{}) entities.FacilitySummary {
	str := func(key string) string {
		s, _ := doc[key].(string)
		return s
	}

	summary := entities.FacilitySummary{
		Name:       str("name"),
		Slug:       str("slug"),
		City:       str("city"),
		Region:     str("region"),
		RegionAbbr: str("region_abbr"),
		Type:       str("type"),
		TypeSlug:   str("type_slug"),
		Address:    str("address"),
		Photo:      str("photo"),
	}
	if v, ok := doc["rating"].(float64); ok {
		summary.Rating = &v
	}
	if v, ok := doc["review_count"].(float64); ok {
		n := int(v)
		summary.ReviewCount = &n
	}
	return summary
}
