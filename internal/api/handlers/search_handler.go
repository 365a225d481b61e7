package handlers

import (
	"net/http"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
)

// SearchHandler serves free text search and type-ahead suggestions
type SearchHandler struct {
	search *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /api/search. Unknown filters give an empty list, not
// an error.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Search(r.Context(), queryString(r, "q"), queryString(r, "type"), regionParam(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, results)
}

// Suggest handles GET /api/suggest
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Suggest(r.Context(), queryString(r, "q"), queryInt(r, "limit", 0))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, results)
}
