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
)

const importSource = "import"

// ImportResult tallies one import run
type ImportResult struct {
	Created   int      `json:"created"`
	Merged    int      `json:"merged"`
	Unchanged int      `json:"unchanged"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// ImportService loads discovered or enriched listings in bulk. Imports are
// expected to run from a single writer.
type ImportService struct {
	repo       repositories.FacilityRepository
	reference  repositories.ReferenceRepository
	searchRepo repositories.FacilitySearchRepository
	eventBus   providers.EventBus
}

// NewImportService creates a new import service. searchRepo and eventBus
// may be nil.
func NewImportService(repo repositories.FacilityRepository, reference repositories.ReferenceRepository, searchRepo repositories.FacilitySearchRepository, eventBus providers.EventBus) *ImportService {
	return &ImportService{
		repo:       repo,
		reference:  reference,
		searchRepo: searchRepo,
		eventBus:   eventBus,
	}
}

// Import inserts records whose slug is new as active listings and merges
// records whose slug already exists into the stored facility, filling only
// fields that are empty there. A bad record is counted and skipped; only
// reference data or store outages abort the run.
func (s *ImportService) Import(ctx context.Context, records []*entities.Facility) (*ImportResult, error) {
	regions, err := s.reference.Regions(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.reference.FacilityTypes(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if record.Status == "" {
			record.Status = entities.FacilityStatusActive
		}
		if err := record.Validate(regions, types); err != nil {
			result.fail(i, record, err)
			continue
		}

		existing, err := s.repo.GetBySlug(ctx, record.Slug)
		switch {
		case err == nil:
			if err := s.merge(ctx, existing, record, result); err != nil {
				if apperrors.IsUnavailable(err) {
					return result, err
				}
				result.fail(i, record, err)
			}
		case apperrors.IsNotFound(err):
			if err := s.create(ctx, record); err != nil {
				if apperrors.IsUnavailable(err) {
					return result, err
				}
				result.fail(i, record, err)
				continue
			}
			result.Created++
		default:
			return result, err
		}
	}

	log.Info().
		Int("created", result.Created).
		Int("merged", result.Merged).
		Int("unchanged", result.Unchanged).
		Int("failed", result.Failed).
		Msg("import finished")
	return result, nil
}

func (s *ImportService) create(ctx context.Context, record *entities.Facility) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Source == "" {
		record.Source = importSource
	}
	if err := createWithFreeSlug(ctx, s.repo, record); err != nil {
		return err
	}
	s.index(ctx, record)
	publishEvent(ctx, s.eventBus, entities.NewFacilityEvent(record, entities.FacilityEventTypeImported))
	return nil
}

func (s *ImportService) merge(ctx context.Context, existing, record *entities.Facility, result *ImportResult) error {
	if !existing.MergeMissing(record) {
		result.Unchanged++
		return nil
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return err
	}
	result.Merged++
	s.index(ctx, existing)
	publishEvent(ctx, s.eventBus, entities.NewFacilityEvent(existing, entities.FacilityEventTypeUpdated))
	return nil
}

func (s *ImportService) index(ctx context.Context, facility *entities.Facility) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, facility); err != nil {
		log.Warn().Err(err).Str("facility_id", facility.ID).Msg("failed to index imported facility")
	}
}

func (r *ImportResult) fail(i int, record *entities.Facility, err error) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("record %d (%s): %v", i, record.Name, err))
}
