package repositories

import (
	"context"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// FacilityRepository defines the interface for facility data operations
type FacilityRepository interface {
	// Create inserts a new facility; a duplicate slug is a conflict
	Create(ctx context.Context, facility *entities.Facility) error

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id string) (*entities.Facility, error)

	// GetBySlug retrieves a facility by its unique slug
	GetBySlug(ctx context.Context, slug string) (*entities.Facility, error)

	// GetByIDs retrieves multiple facilities by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Facility, error)

	// SlugExists reports whether a facility already uses slug
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Update replaces all mutable fields of a facility
	Update(ctx context.Context, facility *entities.Facility) error

	// UpdateStatus records a moderation decision
	UpdateStatus(ctx context.Context, id string, status entities.FacilityStatus, rejectionReason string) error

	// Delete permanently removes a facility
	Delete(ctx context.Context, id string) error

	// List retrieves facilities matching filter in stable id order
	List(ctx context.Context, filter FacilityFilter) ([]*entities.Facility, error)
}

// FacilitySearchRepository is the suggestion index (e.g. Typesense)
type FacilitySearchRepository interface {
	// Suggest returns facilities whose name, city or region starts with query
	Suggest(ctx context.Context, query string, limit int) ([]entities.FacilitySummary, error)

	// Index indexes a facility
	Index(ctx context.Context, facility *entities.Facility) error

	// Delete removes a facility from index
	Delete(ctx context.Context, id string) error
}

// FacilityFilter defines filters for listing facilities. Zero values mean
// no filter.
type FacilityFilter struct {
	Statuses []entities.FacilityStatus
	// Region matches the full name or abbreviation, ignoring case
	Region string
	// City matches exactly
	City     string
	TypeSlug string
	Limit    int
	Offset   int
}
