package handlers

import (
	"net/http"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
)

// SubmissionHandler accepts new listings from the public site
type SubmissionHandler struct {
	submissions *services.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissions *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// SubmitFacility handles POST /api/facilities. The listing stays pending
// until an admin approves it.
func (h *SubmissionHandler) SubmitFacility(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	facility := req.toFacility()
	if err := h.submissions.Submit(r.Context(), facility); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"id":     facility.ID,
		"slug":   facility.Slug,
		"status": string(facility.Status),
	})
}
