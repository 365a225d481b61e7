package repositories

import (
	"context"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// FeedbackRepository stores visitor feedback. Duplicate suppression
// happens before Create is called.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entities.Feedback) error
	// List returns the newest entries first
	List(ctx context.Context, limit int) ([]*entities.Feedback, error)
}
