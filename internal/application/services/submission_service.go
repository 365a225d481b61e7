package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/slug"
)

// maxSlugSuffix bounds the search for a free slug
const maxSlugSuffix = 100

const submissionSource = "submission"

// SubmissionService accepts new listings proposed by visitors
type SubmissionService struct {
	repo      repositories.FacilityRepository
	reference repositories.ReferenceRepository
	eventBus  providers.EventBus
}

// NewSubmissionService creates a new submission service. eventBus may be nil.
func NewSubmissionService(repo repositories.FacilityRepository, reference repositories.ReferenceRepository, eventBus providers.EventBus) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		reference: reference,
		eventBus:  eventBus,
	}
}

// Submit validates a proposed listing against the reference data and
// stores it as pending. A taken slug gets the first free numeric suffix.
func (s *SubmissionService) Submit(ctx context.Context, facility *entities.Facility) error {
	regions, err := s.reference.Regions(ctx)
	if err != nil {
		return err
	}
	types, err := s.reference.FacilityTypes(ctx)
	if err != nil {
		return err
	}

	facility.Slug = ""
	facility.Status = entities.FacilityStatusPending
	facility.RejectionReason = ""
	facility.Rating = nil
	facility.ReviewCount = nil
	if err := facility.Validate(regions, types); err != nil {
		return err
	}

	facility.ID = uuid.New().String()
	facility.Source = submissionSource

	if err := createWithFreeSlug(ctx, s.repo, facility); err != nil {
		return err
	}

	log.Info().
		Str("facility_id", facility.ID).
		Str("slug", facility.Slug).
		Msg("facility submitted for review")

	publishEvent(ctx, s.eventBus, entities.NewFacilityEvent(facility, entities.FacilityEventTypeSubmitted))
	return nil
}

// createWithFreeSlug inserts facility under its slug or, when that is
// taken, under slug-2, slug-3 and so on. A conflict on insert means another
// writer took the slug in between and the next suffix is tried.
func createWithFreeSlug(ctx context.Context, repo repositories.FacilityRepository, facility *entities.Facility) error {
	base := facility.Slug
	for n := 1; n <= maxSlugSuffix; n++ {
		candidate := base
		if n > 1 {
			candidate = slug.WithSuffix(base, n)
		}

		exists, err := repo.SlugExists(ctx, candidate)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		facility.Slug = candidate
		err = repo.Create(ctx, facility)
		if err == nil {
			return nil
		}
		if apperrors.TypeOf(err) != apperrors.ErrorTypeConflict {
			return err
		}
	}
	return apperrors.NewConflictError(fmt.Sprintf("no free slug for %s", base))
}
