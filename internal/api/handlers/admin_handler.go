package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// CacheInvalidator drops cached listings and API responses
type CacheInvalidator interface {
	InvalidateListingCaches(ctx context.Context) error
}

// AdminHandler serves listing moderation and maintenance endpoints
type AdminHandler struct {
	moderation  *services.ModerationService
	directory   *services.DirectoryService
	invalidator CacheInvalidator
}

// NewAdminHandler creates a new admin handler. invalidator may be nil when
// no shared cache is configured.
func NewAdminHandler(moderation *services.ModerationService, directory *services.DirectoryService, invalidator CacheInvalidator) *AdminHandler {
	return &AdminHandler{
		moderation:  moderation,
		directory:   directory,
		invalidator: invalidator,
	}
}

// ListFacilities handles GET /api/admin/facilities. Without a status every
// listing is returned.
func (h *AdminHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.moderation.ListFacilities(r.Context(), entities.FacilityStatus(queryString(r, "status")))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// UpdateFacilityStatus handles PATCH /api/admin/facilities/{id}
func (h *AdminHandler) UpdateFacilityStatus(w http.ResponseWriter, r *http.Request) {
	var req statusChangeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	facility, err := h.moderation.UpdateFacilityStatus(r.Context(), r.PathValue("id"), req.toStatusChange())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	h.invalidate(r.Context())
	respondWithJSON(w, http.StatusOK, facility)
}

// DeleteFacility handles DELETE /api/admin/facilities/{id}
func (h *AdminHandler) DeleteFacility(w http.ResponseWriter, r *http.Request) {
	if err := h.moderation.DeleteFacility(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	h.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// InvalidateReference handles POST /api/admin/reference/invalidate. The
// region and type sets are reloaded on next use.
func (h *AdminHandler) InvalidateReference(w http.ResponseWriter, r *http.Request) {
	h.directory.InvalidateReferenceData()
	h.invalidate(r.Context())
	log.Info().Msg("reference data invalidated")
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *AdminHandler) invalidate(ctx context.Context) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.InvalidateListingCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate listing caches")
	}
}
