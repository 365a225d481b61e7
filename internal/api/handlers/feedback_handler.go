package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/middleware"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
)

const (
	feedbackDedupWindow = 24 * time.Hour
	feedbackDedupPrefix = "feedback:dup:"
)

// FeedbackService defines the feedback operations used by the handler.
type FeedbackService interface {
	Submit(ctx context.Context, feedback *entities.Feedback) error
	List(ctx context.Context, limit int) ([]*entities.Feedback, error)
}

// FeedbackHandler handles feedback submissions. Identical feedback from the
// same client within a day is acknowledged but stored once.
type FeedbackHandler struct {
	service FeedbackService
	cache   providers.CacheProvider
	deduper *localDeduper
}

// NewFeedbackHandler creates a new feedback handler. Without a cache the
// duplicate check is kept in process.
func NewFeedbackHandler(service FeedbackService, cache providers.CacheProvider) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		cache:   cache,
		deduper: newLocalDeduper(),
	}
}

// SubmitFeedback handles POST /api/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	ip := middleware.ClientIP(r)
	if h.isDuplicate(r.Context(), feedbackDedupPrefix+feedbackFingerprint(req, ip)) {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "duplicate_ignored",
		})
		return
	}

	feedback := &entities.Feedback{
		Type:      entities.FeedbackType(req.Type),
		Rating:    req.Rating,
		Message:   req.Message,
		PageTitle: strings.TrimSpace(req.PageTitle),
		PageURL:   strings.TrimSpace(req.PageURL),
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
	if err := h.service.Submit(r.Context(), feedback); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"status": "received",
		"id":     feedback.ID,
	})
}

// ListFeedback handles GET /api/admin/feedback
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.service.List(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, feedback)
}

func (h *FeedbackHandler) isDuplicate(ctx context.Context, key string) bool {
	if h.cache == nil {
		return h.deduper.seen(key, feedbackDedupWindow)
	}

	exists, err := h.cache.Exists(ctx, key)
	if err == nil && exists {
		return true
	}

	_ = h.cache.Set(ctx, key, []byte("1"), int(feedbackDedupWindow.Seconds()))
	return false
}

type localDeduper struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newLocalDeduper() *localDeduper {
	return &localDeduper{
		entries: make(map[string]time.Time),
	}
}

func (d *localDeduper) seen(key string, window time.Duration) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for k, expiresAt := range d.entries {
		if now.After(expiresAt) {
			delete(d.entries, k)
		}
	}
	if _, ok := d.entries[key]; ok {
		return true
	}

	d.entries[key] = now.Add(window)
	return false
}

func feedbackFingerprint(req feedbackRequest, ip string) string {
	rating := ""
	if req.Rating != nil {
		rating = strconv.Itoa(*req.Rating)
	}
	normalized := []string{
		req.Type,
		rating,
		normalizeFeedback(req.Message),
		strings.ToLower(strings.TrimSpace(req.PageURL)),
		ip,
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

func normalizeFeedback(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
