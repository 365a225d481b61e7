package handlers

import (
	"net/http"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/loaders"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// ClaimHandler handles ownership claims, both the public form and the
// admin review
type ClaimHandler struct {
	claims *services.ClaimService
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(claims *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

// CreateClaim handles POST /api/claims
func (h *ClaimHandler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	claim := req.toClaim()
	if err := h.claims.Create(r.Context(), claim); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"id":     claim.ID,
		"status": string(claim.Status),
	})
}

// ListClaims handles GET /api/admin/claims
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	var resolver services.FacilityResolver
	if l := loaders.For(r.Context()); l != nil {
		resolver = l
	}

	claims, err := h.claims.List(r.Context(), entities.ClaimStatus(queryString(r, "status")), resolver)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"claims": claims,
		"count":  len(claims),
	})
}

// UpdateClaimStatus handles PATCH /api/admin/claims/{id}
func (h *ClaimHandler) UpdateClaimStatus(w http.ResponseWriter, r *http.Request) {
	var req statusChangeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	claim, err := h.claims.UpdateStatus(r.Context(), r.PathValue("id"), req.toStatusChange())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, claim)
}

// DeleteClaim handles DELETE /api/admin/claims/{id}
func (h *ClaimHandler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	if err := h.claims.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
