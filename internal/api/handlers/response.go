package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an error from the service layer to its HTTP
// status. Internal details are logged, never returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeUnavailable:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("backing store unavailable")
		respondWithError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// queryString returns the trimmed value of the first present key
func queryString(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// regionParam accepts the canonical and the legacy names of the region
// filter
func regionParam(r *http.Request) string {
	return queryString(r, "region", "state", "province")
}

// queryInt parses an integer parameter. Missing or malformed values give
// the default.
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(queryString(r, key))
	if err != nil {
		return def
	}
	return v
}

// queryFloat parses a float parameter; ok is false when the parameter is
// missing or malformed
func queryFloat(r *http.Request, key string) (float64, bool) {
	v, err := strconv.ParseFloat(queryString(r, key), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// queryBool reports whether the parameter is a true value
func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(queryString(r, key))
	return err == nil && v
}
