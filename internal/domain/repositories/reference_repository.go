package repositories

import (
	"context"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// ReferenceRepository provides the fixed region and facility type sets
type ReferenceRepository interface {
	Regions(ctx context.Context) ([]entities.Region, error)
	FacilityTypes(ctx context.Context) ([]entities.FacilityType, error)
}
