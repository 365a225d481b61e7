package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

const (
	feedbackStatusNew    = "new"
	maxFeedbackMessage   = 2000
	defaultFeedbackLimit = 50
)

// FeedbackService handles feedback submissions.
type FeedbackService struct {
	repo repositories.FeedbackRepository
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo repositories.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

// Submit stores feedback. A rating needs a score from 1 to 5; a comment
// needs a message.
func (s *FeedbackService) Submit(ctx context.Context, feedback *entities.Feedback) error {
	feedback.Message = strings.TrimSpace(feedback.Message)

	switch feedback.Type {
	case entities.FeedbackTypeRating:
		if feedback.Rating == nil || *feedback.Rating < 1 || *feedback.Rating > 5 {
			return apperrors.NewValidationError("rating must be between 1 and 5")
		}
	case entities.FeedbackTypeComment:
		if feedback.Message == "" {
			return apperrors.NewValidationError("message is required")
		}
	default:
		return apperrors.NewValidationError("type must be rating or comment")
	}
	if len(feedback.Message) > maxFeedbackMessage {
		return apperrors.NewValidationError("message is too long")
	}

	feedback.ID = uuid.New().String()
	feedback.Status = feedbackStatusNew
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	return s.repo.Create(ctx, feedback)
}

// List returns the most recent feedback
func (s *FeedbackService) List(ctx context.Context, limit int) ([]*entities.Feedback, error) {
	if limit <= 0 {
		limit = defaultFeedbackLimit
	}
	return s.repo.List(ctx, limit)
}
