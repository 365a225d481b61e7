package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

// FacilityResolver fetches the facilities behind a set of ids. Missing ids
// are absent from the map.
type FacilityResolver interface {
	ResolveFacilities(ctx context.Context, ids []string) (map[string]*entities.Facility, error)
}

// repoResolver resolves facilities with one GetByIDs call
type repoResolver struct {
	repo repositories.FacilityRepository
}

func (r repoResolver) ResolveFacilities(ctx context.Context, ids []string) (map[string]*entities.Facility, error) {
	facilities, err := r.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entities.Facility, len(facilities))
	for _, f := range facilities {
		out[f.ID] = f
	}
	return out, nil
}

// ClaimService handles ownership claims on listings. Several claims may
// exist for the same facility; reviewing them is up to the admin.
type ClaimService struct {
	repo         repositories.ClaimRepository
	facilityRepo repositories.FacilityRepository
}

// NewClaimService creates a new claim service
func NewClaimService(repo repositories.ClaimRepository, facilityRepo repositories.FacilityRepository) *ClaimService {
	return &ClaimService{
		repo:         repo,
		facilityRepo: facilityRepo,
	}
}

// Create files a pending claim. The facility is looked up by id or, when
// no id is given, by slug; an unknown facility is a validation error.
func (s *ClaimService) Create(ctx context.Context, claim *entities.Claim) error {
	claim.ContactEmail = strings.TrimSpace(claim.ContactEmail)
	if claim.ContactEmail == "" {
		return apperrors.NewValidationError("contact email is required")
	}

	var (
		facility *entities.Facility
		err      error
	)
	switch {
	case claim.FacilityID != "":
		facility, err = s.facilityRepo.GetByID(ctx, claim.FacilityID)
	case claim.FacilitySlug != "":
		facility, err = s.facilityRepo.GetBySlug(ctx, claim.FacilitySlug)
	default:
		return apperrors.NewValidationError("facility id or slug is required")
	}
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidationError("facility does not exist")
		}
		return err
	}

	claim.ID = uuid.New().String()
	claim.FacilityID = facility.ID
	claim.FacilitySlug = facility.Slug
	claim.FacilityName = facility.Name
	claim.Status = entities.ClaimStatusPending
	claim.AdminNotes = ""
	claim.RejectionReason = ""
	claim.ReviewedAt = nil
	claim.ReviewedBy = ""

	if err := s.repo.Create(ctx, claim); err != nil {
		return err
	}

	log.Info().Str("claim_id", claim.ID).Str("facility_id", facility.ID).Msg("claim submitted")
	return nil
}

// Get returns a claim by id
func (s *ClaimService) Get(ctx context.Context, id string) (*entities.Claim, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns claims newest first together with a summary of the listing
// each refers to. resolver batches the facility lookups; nil falls back to
// the facility repository.
func (s *ClaimService) List(ctx context.Context, status entities.ClaimStatus, resolver FacilityResolver) ([]entities.ClaimWithFacility, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError("status must be one of pending, approved, rejected")
	}

	claims, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	if resolver == nil {
		resolver = repoResolver{repo: s.facilityRepo}
	}

	ids := make([]string, 0, len(claims))
	seen := make(map[string]struct{}, len(claims))
	for _, c := range claims {
		if _, ok := seen[c.FacilityID]; ok {
			continue
		}
		seen[c.FacilityID] = struct{}{}
		ids = append(ids, c.FacilityID)
	}

	facilities, err := resolver.ResolveFacilities(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]entities.ClaimWithFacility, 0, len(claims))
	for _, c := range claims {
		item := entities.ClaimWithFacility{Claim: c}
		if f, ok := facilities[c.FacilityID]; ok {
			summary := f.Summary()
			item.Facility = &summary
		}
		out = append(out, item)
	}
	return out, nil
}

// UpdateStatus records an admin decision on a claim. Rejections need a
// reason.
func (s *ClaimService) UpdateStatus(ctx context.Context, id string, change entities.StatusChange) (*entities.Claim, error) {
	if err := change.ValidateForClaim(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, change); err != nil {
		return nil, err
	}

	log.Info().
		Str("claim_id", id).
		Str("status", change.Status).
		Str("reviewed_by", change.ReviewedBy).
		Msg("claim status updated")

	return s.repo.GetByID(ctx, id)
}

// Delete removes a claim
func (s *ClaimService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("claim_id", id).Msg("claim deleted")
	return nil
}
