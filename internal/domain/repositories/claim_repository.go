package repositories

import (
	"context"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// ClaimRepository defines the interface for business claim operations
type ClaimRepository interface {
	Create(ctx context.Context, claim *entities.Claim) error
	GetByID(ctx context.Context, id string) (*entities.Claim, error)
	// List returns claims newest first, optionally restricted to one status
	List(ctx context.Context, status entities.ClaimStatus) ([]*entities.Claim, error)
	UpdateStatus(ctx context.Context, id string, change entities.StatusChange) error
	Delete(ctx context.Context, id string) error
}
