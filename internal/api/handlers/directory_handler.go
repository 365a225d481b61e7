package handlers

import (
	"net/http"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/query/aggregation"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

// DirectoryHandler serves the public read API. Only active listings are
// visible through it.
type DirectoryHandler struct {
	directory *services.DirectoryService
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListFacilities handles GET /api/facilities. The moderation queue is
// served by the admin listing; a status parameter is ignored here.
func (h *DirectoryHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.directory.ListFacilities(r.Context(), repositories.FacilityFilter{
		Statuses: []entities.FacilityStatus{entities.FacilityStatusActive},
		Region:   regionParam(r),
		City:     queryString(r, "city"),
		TypeSlug: queryString(r, "type"),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// GetFacility handles GET /api/facilities/{slug}
func (h *DirectoryHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facility, found, err := h.directory.GetFacilityBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !found || facility.Status != entities.FacilityStatusActive {
		respondWithError(w, http.StatusNotFound, "facility not found")
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

// GetRelatedFacilities handles GET /api/facilities/{slug}/related
func (h *DirectoryHandler) GetRelatedFacilities(w http.ResponseWriter, r *http.Request) {
	related, found, err := h.directory.GetRelatedFacilities(r.Context(), r.PathValue("slug"), queryInt(r, "limit", services.DefaultRelatedLimit))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "facility not found")
		return
	}

	respondWithJSON(w, http.StatusOK, entities.Summaries(related))
}

// GetFeaturedFacilities handles GET /api/facilities/featured
func (h *DirectoryHandler) GetFeaturedFacilities(w http.ResponseWriter, r *http.Request) {
	featured, err := h.directory.GetFeaturedFacilities(r.Context(), queryInt(r, "limit", services.DefaultListingLimit))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entities.Summaries(featured))
}

// GetRecentlyUpdated handles GET /api/facilities/recent
func (h *DirectoryHandler) GetRecentlyUpdated(w http.ResponseWriter, r *http.Request) {
	recent, err := h.directory.GetRecentlyUpdated(r.Context(), queryInt(r, "limit", services.DefaultListingLimit))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entities.Summaries(recent))
}

// GetNearbyFacilities handles GET /api/facilities/nearby
func (h *DirectoryHandler) GetNearbyFacilities(w http.ResponseWriter, r *http.Request) {
	lat, okLat := queryFloat(r, "lat")
	lon, okLon := queryFloat(r, "lon")
	if !okLat || !okLon {
		respondWithError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	radius, ok := queryFloat(r, "radius")
	if !ok {
		radius = services.DefaultNearbyRadius
	}

	nearby, err := h.directory.GetNearbyFacilities(r.Context(), lat, lon, radius, queryInt(r, "limit", services.DefaultNearbyLimit))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nearby)
}

// ListRegions handles GET /api/regions
func (h *DirectoryHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.directory.GetAllRegions(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, regions)
}

// GetRegion handles GET /api/regions/{slug}
func (h *DirectoryHandler) GetRegion(w http.ResponseWriter, r *http.Request) {
	region, ok := h.region(w, r)
	if !ok {
		return
	}

	facilities, err := h.directory.GetFacilitiesByRegion(r.Context(), region.Abbr, entities.FacilityStatusActive)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"region":     region,
		"facilities": entities.Summaries(facilities),
		"count":      len(facilities),
	})
}

// GetRegionCities handles GET /api/regions/{slug}/cities. With letters=true
// the city names come grouped by first letter.
func (h *DirectoryHandler) GetRegionCities(w http.ResponseWriter, r *http.Request) {
	region, ok := h.region(w, r)
	if !ok {
		return
	}

	cities, err := h.directory.GetCitiesByRegion(r.Context(), region.Abbr, entities.FacilityStatusActive)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if queryBool(r, "letters") {
		respondWithJSON(w, http.StatusOK, aggregation.GroupByFirstLetter(aggregation.CityNames(cities)))
		return
	}
	respondWithJSON(w, http.StatusOK, cities)
}

// GetCityFacilities handles GET /api/regions/{slug}/cities/{city}
func (h *DirectoryHandler) GetCityFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, found, err := h.directory.GetFacilitiesByCitySlug(r.Context(), r.PathValue("slug"), r.PathValue("city"), entities.FacilityStatusActive)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "city not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"city":       facilities[0].City,
		"region":     facilities[0].Region,
		"facilities": entities.Summaries(facilities),
		"count":      len(facilities),
	})
}

func (h *DirectoryHandler) region(w http.ResponseWriter, r *http.Request) (entities.Region, bool) {
	region, found, err := h.directory.GetRegionBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondWithAppError(w, r, err)
		return entities.Region{}, false
	}
	if !found {
		respondWithAppError(w, r, apperrors.NewNotFoundError("region not found"))
		return entities.Region{}, false
	}
	return region, true
}

// ListFacilityTypes handles GET /api/types
func (h *DirectoryHandler) ListFacilityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.directory.GetAllFacilityTypes(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, types)
}

// GetFacilityType handles GET /api/types/{slug}
func (h *DirectoryHandler) GetFacilityType(w http.ResponseWriter, r *http.Request) {
	facilityType, found, err := h.directory.GetFacilityTypeBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "facility type not found")
		return
	}

	facilities, err := h.directory.GetFacilitiesByFacilityType(r.Context(), facilityType.Slug, entities.FacilityStatusActive)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"type":       facilityType,
		"facilities": entities.Summaries(facilities),
		"count":      len(facilities),
	})
}

// GetStats handles GET /api/stats
func (h *DirectoryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.directory.GetStats(r.Context(), entities.FacilityStatusActive)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
