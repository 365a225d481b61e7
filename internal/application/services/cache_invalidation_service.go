package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
)

// listingResponsePaths are the API paths whose cached responses can change
// when any single listing changes
var listingResponsePaths = []string{
	"/api/facilities",
	"/api/search",
	"/api/suggest",
	"/api/stats",
	"/api/regions/",
	"/api/types/",
}

// CacheInvalidationService drops cached data when facility events arrive,
// so writes made by other processes (importer, other API replicas) become
// visible before the TTLs run out
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelFacilityUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to facility updates: %w", err)
	}

	s.wg.Add(1)
	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.FacilityEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.HandleEvent(event)
		}
	}
}

// HandleEvent invalidates everything a single facility event can affect
func (s *CacheInvalidationService) HandleEvent(event *entities.FacilityEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Debug().
		Str("event_id", event.ID).
		Str("facility_id", event.FacilityID).
		Str("event_type", string(event.EventType)).
		Msg("processing cache invalidation")

	if err := s.InvalidateFacilityCache(ctx, event.FacilityID, event.FacilitySlug); err != nil {
		log.Warn().Err(err).Str("facility_id", event.FacilityID).Msg("failed to invalidate facility cache")
	}
	if err := s.InvalidateListingCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate listing caches")
	}
}

// InvalidateFacilityCache drops the cached records of one facility
func (s *CacheInvalidationService) InvalidateFacilityCache(ctx context.Context, facilityID, facilitySlug string) error {
	if facilityID != "" {
		if err := s.cache.Delete(ctx, providers.FacilityIDCacheKey(facilityID)); err != nil {
			return err
		}
	}
	if facilitySlug != "" {
		if err := s.cache.Delete(ctx, providers.FacilitySlugCacheKey(facilitySlug)); err != nil {
			return err
		}
	}
	return nil
}

// InvalidateListingCaches drops cached lists and every cached API response
// derived from them
func (s *CacheInvalidationService) InvalidateListingCaches(ctx context.Context) error {
	patterns := []string{providers.FacilityListCachePrefix + "*"}
	for _, p := range listingResponsePaths {
		patterns = append(patterns, providers.ResponseCachePattern(p))
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	return nil
}
