package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

// ModerationService applies admin decisions to listings. The database
// write is authoritative; index and event updates are best effort.
type ModerationService struct {
	repo       repositories.FacilityRepository
	searchRepo repositories.FacilitySearchRepository
	eventBus   providers.EventBus
}

// NewModerationService creates a new moderation service. searchRepo and
// eventBus may be nil.
func NewModerationService(repo repositories.FacilityRepository, searchRepo repositories.FacilitySearchRepository, eventBus providers.EventBus) *ModerationService {
	return &ModerationService{
		repo:       repo,
		searchRepo: searchRepo,
		eventBus:   eventBus,
	}
}

// ListFacilities returns facilities for the admin queue, optionally
// restricted to one status
func (s *ModerationService) ListFacilities(ctx context.Context, status entities.FacilityStatus) ([]*entities.Facility, error) {
	filter := repositories.FacilityFilter{}
	if status != "" {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("status must be one of active, pending, rejected")
		}
		filter.Statuses = []entities.FacilityStatus{status}
	}
	return s.repo.List(ctx, filter)
}

// UpdateFacilityStatus approves, rejects or re-queues a facility. A
// rejection needs a reason. Concurrent decisions are not serialized; the
// last write wins.
func (s *ModerationService) UpdateFacilityStatus(ctx context.Context, id string, change entities.StatusChange) (*entities.Facility, error) {
	if err := change.ValidateForFacility(); err != nil {
		return nil, err
	}
	status := entities.FacilityStatus(change.Status)

	if err := s.repo.UpdateStatus(ctx, id, status, change.RejectionReason); err != nil {
		return nil, err
	}

	facility, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("facility_id", id).
		Str("status", string(status)).
		Str("reviewed_by", change.ReviewedBy).
		Msg("facility status updated")

	s.index(ctx, facility)
	s.publish(ctx, entities.NewFacilityEvent(facility, entities.EventTypeForStatus(status)))
	return facility, nil
}

// DeleteFacility permanently removes a facility
func (s *ModerationService) DeleteFacility(ctx context.Context, id string) error {
	facility, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("facility_id", id).Str("slug", facility.Slug).Msg("facility deleted")

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("facility_id", id).Msg("failed to delete facility from index")
		}
	}
	s.publish(ctx, entities.NewFacilityEvent(facility, entities.FacilityEventTypeDeleted))
	return nil
}

func (s *ModerationService) index(ctx context.Context, facility *entities.Facility) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, facility); err != nil {
		log.Warn().Err(err).Str("facility_id", facility.ID).Msg("failed to update facility index")
	}
}

func (s *ModerationService) publish(ctx context.Context, event *entities.FacilityEvent) {
	publishEvent(ctx, s.eventBus, event)
}

// publishEvent announces event on the facility channel, logging failures
func publishEvent(ctx context.Context, bus providers.EventBus, event *entities.FacilityEvent) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, providers.EventChannelFacilityUpdates, event); err != nil {
		log.Warn().Err(err).
			Str("facility_id", event.FacilityID).
			Str("event_type", string(event.EventType)).
			Msg("failed to publish facility event")
	}
}
