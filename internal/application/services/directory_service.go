package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/query/aggregation"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/query/ranking"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/slug"
)

// Listing defaults used when the caller passes no limit
const (
	DefaultListingLimit  = 10
	DefaultNearbyRadius  = 25.0
	DefaultNearbyLimit   = 20
	DefaultRelatedLimit  = 12
	maxListingLimit      = 100
	maxNearbyRadiusInKms = 500.0
)

// DirectoryService answers the read queries behind the directory pages.
// Lookups that find nothing return found=false with a nil error; store
// failures surface as UNAVAILABLE errors and never as partial lists.
type DirectoryService struct {
	repo      repositories.FacilityRepository
	reference repositories.ReferenceRepository
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(repo repositories.FacilityRepository, reference repositories.ReferenceRepository) *DirectoryService {
	return &DirectoryService{
		repo:      repo,
		reference: reference,
	}
}

// GetAllFacilities returns every facility, or only those in statuses when
// any are given. The order is by id.
func (s *DirectoryService) GetAllFacilities(ctx context.Context, statuses ...entities.FacilityStatus) ([]*entities.Facility, error) {
	return s.repo.List(ctx, repositories.FacilityFilter{Statuses: statuses})
}

// ListFacilities applies region, city and type filters together. A limit
// above the maximum is capped; zero means no limit.
func (s *DirectoryService) ListFacilities(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	filter.Region = strings.TrimSpace(filter.Region)
	filter.City = strings.TrimSpace(filter.City)
	filter.TypeSlug = strings.TrimSpace(filter.TypeSlug)
	if filter.Limit > maxListingLimit {
		filter.Limit = maxListingLimit
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// GetFacilityBySlug looks a facility up by its slug
func (s *DirectoryService) GetFacilityBySlug(ctx context.Context, facilitySlug string) (*entities.Facility, bool, error) {
	facilitySlug = strings.TrimSpace(facilitySlug)
	if facilitySlug == "" {
		return nil, false, nil
	}
	return found(s.repo.GetBySlug(ctx, facilitySlug))
}

// GetFacilityByID looks a facility up by id
func (s *DirectoryService) GetFacilityByID(ctx context.Context, id string) (*entities.Facility, bool, error) {
	return found(s.repo.GetByID(ctx, id))
}

func found(f *entities.Facility, err error) (*entities.Facility, bool, error) {
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return f, true, nil
}

// GetFacilitiesByRegion returns facilities whose region name or
// abbreviation equals region, ignoring case
func (s *DirectoryService) GetFacilitiesByRegion(ctx context.Context, region string, statuses ...entities.FacilityStatus) ([]*entities.Facility, error) {
	if strings.TrimSpace(region) == "" {
		return []*entities.Facility{}, nil
	}
	return s.repo.List(ctx, repositories.FacilityFilter{Statuses: statuses, Region: region})
}

// GetFacilitiesByCity returns facilities whose city equals city exactly
func (s *DirectoryService) GetFacilitiesByCity(ctx context.Context, city string, statuses ...entities.FacilityStatus) ([]*entities.Facility, error) {
	if city == "" {
		return []*entities.Facility{}, nil
	}
	return s.repo.List(ctx, repositories.FacilityFilter{Statuses: statuses, City: city})
}

// GetFacilitiesByFacilityType returns facilities of one type
func (s *DirectoryService) GetFacilitiesByFacilityType(ctx context.Context, typeSlug string, statuses ...entities.FacilityStatus) ([]*entities.Facility, error) {
	if typeSlug == "" {
		return []*entities.Facility{}, nil
	}
	return s.repo.List(ctx, repositories.FacilityFilter{Statuses: statuses, TypeSlug: typeSlug})
}

// GetFacilitiesByCitySlug resolves a region slug and city slug pair, as
// used in page URLs, to the facilities in that city
func (s *DirectoryService) GetFacilitiesByCitySlug(ctx context.Context, regionSlug, citySlug string, statuses ...entities.FacilityStatus) ([]*entities.Facility, bool, error) {
	region, ok, err := s.GetRegionBySlug(ctx, regionSlug)
	if err != nil || !ok {
		return nil, false, err
	}

	inRegion, err := s.GetFacilitiesByRegion(ctx, region.Abbr, statuses...)
	if err != nil {
		return nil, false, err
	}

	out := make([]*entities.Facility, 0)
	for _, f := range inRegion {
		if slug.City(f.City) == citySlug {
			out = append(out, f)
		}
	}
	return out, len(out) > 0, nil
}

// GetAllRegions returns the region reference set
func (s *DirectoryService) GetAllRegions(ctx context.Context) ([]entities.Region, error) {
	return s.reference.Regions(ctx)
}

// GetAllFacilityTypes returns the facility type reference set
func (s *DirectoryService) GetAllFacilityTypes(ctx context.Context) ([]entities.FacilityType, error) {
	return s.reference.FacilityTypes(ctx)
}

// GetRegionBySlug finds a region by its URL slug
func (s *DirectoryService) GetRegionBySlug(ctx context.Context, regionSlug string) (entities.Region, bool, error) {
	regions, err := s.reference.Regions(ctx)
	if err != nil {
		return entities.Region{}, false, err
	}
	for _, r := range regions {
		if r.Slug == regionSlug {
			return r, true, nil
		}
	}
	return entities.Region{}, false, nil
}

// GetRegionByAbbr finds a region by abbreviation, ignoring case
func (s *DirectoryService) GetRegionByAbbr(ctx context.Context, abbr string) (entities.Region, bool, error) {
	regions, err := s.reference.Regions(ctx)
	if err != nil {
		return entities.Region{}, false, err
	}
	for _, r := range regions {
		if strings.EqualFold(r.Abbr, strings.TrimSpace(abbr)) {
			return r, true, nil
		}
	}
	return entities.Region{}, false, nil
}

// GetFacilityTypeBySlug finds a facility type by slug
func (s *DirectoryService) GetFacilityTypeBySlug(ctx context.Context, typeSlug string) (entities.FacilityType, bool, error) {
	types, err := s.reference.FacilityTypes(ctx)
	if err != nil {
		return entities.FacilityType{}, false, err
	}
	t, ok := entities.FindFacilityType(types, typeSlug)
	return t, ok, nil
}

// InvalidateReferenceData drops cached regions and facility types so the
// next read reloads them. It is a no-op when the reference source is not
// cached.
func (s *DirectoryService) InvalidateReferenceData() {
	if c, ok := s.reference.(interface{ Invalidate() }); ok {
		c.Invalidate()
		log.Info().Msg("reference data invalidated")
	}
}

// GetCitiesByRegion lists the cities that have facilities in region
func (s *DirectoryService) GetCitiesByRegion(ctx context.Context, region string, statuses ...entities.FacilityStatus) ([]entities.City, error) {
	facilities, err := s.GetFacilitiesByRegion(ctx, region, statuses...)
	if err != nil {
		return nil, err
	}
	return aggregation.Cities(facilities, region), nil
}

// GetStats computes the directory counters over facilities in statuses
func (s *DirectoryService) GetStats(ctx context.Context, statuses ...entities.FacilityStatus) (entities.DirectoryStats, error) {
	facilities, err := s.GetAllFacilities(ctx, statuses...)
	if err != nil {
		return entities.DirectoryStats{}, err
	}
	regions, err := s.reference.Regions(ctx)
	if err != nil {
		return entities.DirectoryStats{}, err
	}
	types, err := s.reference.FacilityTypes(ctx)
	if err != nil {
		return entities.DirectoryStats{}, err
	}
	return aggregation.Stats(facilities, regions, types), nil
}

// GetFeaturedFacilities returns the best rated active facilities
func (s *DirectoryService) GetFeaturedFacilities(ctx context.Context, limit int) ([]*entities.Facility, error) {
	facilities, err := s.GetAllFacilities(ctx, entities.FacilityStatusActive)
	if err != nil {
		return nil, err
	}
	return ranking.Featured(facilities, clampLimit(limit, DefaultListingLimit)), nil
}

// GetRecentlyUpdated returns the most recently updated active facilities
func (s *DirectoryService) GetRecentlyUpdated(ctx context.Context, limit int) ([]*entities.Facility, error) {
	facilities, err := s.GetAllFacilities(ctx, entities.FacilityStatusActive)
	if err != nil {
		return nil, err
	}
	return ranking.RecentlyUpdated(facilities, clampLimit(limit, DefaultListingLimit)), nil
}

// GetNearbyFacilities returns active facilities within radiusKm of a point
func (s *DirectoryService) GetNearbyFacilities(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]ranking.NearbyFacility, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadius
	}
	if radiusKm > maxNearbyRadiusInKms {
		radiusKm = maxNearbyRadiusInKms
	}

	facilities, err := s.GetAllFacilities(ctx, entities.FacilityStatusActive)
	if err != nil {
		return nil, err
	}
	return ranking.Nearby(facilities, lat, lon, radiusKm, clampLimit(limit, DefaultNearbyLimit)), nil
}

// GetRelatedFacilities returns active facilities similar to the one with
// facilitySlug. found is false when that facility does not exist.
func (s *DirectoryService) GetRelatedFacilities(ctx context.Context, facilitySlug string, limit int) ([]*entities.Facility, bool, error) {
	target, ok, err := s.GetFacilityBySlug(ctx, facilitySlug)
	if err != nil || !ok {
		return nil, false, err
	}

	candidates, err := s.GetAllFacilities(ctx, entities.FacilityStatusActive)
	if err != nil {
		return nil, false, err
	}
	return ranking.Related(target, candidates, clampLimit(limit, DefaultRelatedLimit)), true, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxListingLimit {
		return maxListingLimit
	}
	return limit
}
