package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/query/ranking"
)

const (
	warmTopFacilities = 50
	warmFacilityTTL   = 600
)

// CacheWarmingService preloads the data behind the busiest pages
type CacheWarmingService struct {
	directory *DirectoryService
	cache     providers.CacheProvider
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(directory *DirectoryService, cache providers.CacheProvider) *CacheWarmingService {
	return &CacheWarmingService{
		directory: directory,
		cache:     cache,
	}
}

// WarmCache loads the reference data and the active listing set, and
// caches the top rated facilities individually. Failures are logged; the
// cache is an optimisation only.
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	started := time.Now()

	if _, err := s.directory.GetAllRegions(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to warm regions")
	}
	if _, err := s.directory.GetAllFacilityTypes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to warm facility types")
	}

	facilities, err := s.directory.GetAllFacilities(ctx, entities.FacilityStatusActive)
	if err != nil {
		return fmt.Errorf("failed to fetch active facilities: %w", err)
	}

	if err := s.warmTopFacilities(ctx, facilities); err != nil {
		log.Warn().Err(err).Msg("failed to warm top facilities")
	}

	log.Info().
		Int("facilities", len(facilities)).
		Dur("duration", time.Since(started)).
		Msg("cache warming completed")
	return nil
}

func (s *CacheWarmingService) warmTopFacilities(ctx context.Context, facilities []*entities.Facility) error {
	top := ranking.Featured(facilities, warmTopFacilities)

	items := make(map[string][]byte, 2*len(top))
	for _, f := range top {
		data, err := json.Marshal(f)
		if err != nil {
			log.Warn().Err(err).Str("facility_id", f.ID).Msg("failed to marshal facility")
			continue
		}
		items[providers.FacilityIDCacheKey(f.ID)] = data
		items[providers.FacilitySlugCacheKey(f.Slug)] = data
	}

	if len(items) == 0 {
		return nil
	}
	if err := s.cache.SetMulti(ctx, items, warmFacilityTTL); err != nil {
		return fmt.Errorf("failed to cache top facilities: %w", err)
	}
	log.Debug().Int("count", len(top)).Msg("warmed top facilities")
	return nil
}

// StartPeriodicWarming warms once and then every interval until ctx ends
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	if err := s.WarmCache(ctx); err != nil {
		log.Warn().Err(err).Msg("initial cache warming failed")
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(ctx); err != nil {
					log.Warn().Err(err).Msg("periodic cache warming failed")
				}
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("started periodic cache warming")
}
