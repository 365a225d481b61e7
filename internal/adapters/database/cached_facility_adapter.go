package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
)

// CachedFacilityAdapter wraps a FacilityRepository with a read-through cache.
// Writes go to the wrapped repository first and then drop the affected keys.
//
// Cache fills happen in the background. A fill is skipped when a write went
// through this adapter after the read started, so a read that raced a
// moderation decision does not put the old row back. Writes from another
// process are only seen through the event driven invalidation, and a fill
// racing those can serve the old row until facilityTTL expires.
type CachedFacilityAdapter struct {
	adapter     repositories.FacilityRepository
	cache       providers.CacheProvider
	facilityTTL int
	listTTL     int

	// generation is bumped by every write
	generation atomic.Uint64
}

// Ensure CachedFacilityAdapter implements FacilityRepository
var _ repositories.FacilityRepository = (*CachedFacilityAdapter)(nil)

// Default cache TTLs (in seconds)
const (
	defaultFacilityTTL = 600
	defaultListTTL     = 300
)

// NewCachedFacilityAdapter creates a new cached facility adapter. Zero TTLs
// fall back to the defaults.
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider, facilityTTL, listTTL time.Duration) *CachedFacilityAdapter {
	a := &CachedFacilityAdapter{
		adapter:     adapter,
		cache:       cache,
		facilityTTL: int(facilityTTL.Seconds()),
		listTTL:     int(listTTL.Seconds()),
	}
	if a.facilityTTL <= 0 {
		a.facilityTTL = defaultFacilityTTL
	}
	if a.listTTL <= 0 {
		a.listTTL = defaultListTTL
	}
	return a
}

func facilitiesListCacheKey(filter repositories.FacilityFilter) string {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	return fmt.Sprintf("%s%s:%s:%s:%s:%d:%d",
		providers.FacilityListCachePrefix,
		strings.Join(statuses, ","),
		strings.ToLower(strings.TrimSpace(filter.Region)),
		filter.City,
		filter.TypeSlug,
		filter.Limit,
		filter.Offset,
	)
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	return a.getOne(ctx, providers.FacilityIDCacheKey(id), func() (*entities.Facility, error) {
		return a.adapter.GetByID(ctx, id)
	})
}

// GetBySlug retrieves a facility by slug with caching
func (a *CachedFacilityAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Facility, error) {
	return a.getOne(ctx, providers.FacilitySlugCacheKey(slug), func() (*entities.Facility, error) {
		return a.adapter.GetBySlug(ctx, slug)
	})
}

func (a *CachedFacilityAdapter) getOne(ctx context.Context, cacheKey string, load func() (*entities.Facility, error)) (*entities.Facility, error) {
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facility entities.Facility
		if err := json.Unmarshal(cached, &facility); err == nil {
			return &facility, nil
		}
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached facility")
	}

	gen := a.generation.Load()
	facility, err := load()
	if err != nil {
		return nil, err
	}

	go func() {
		if a.stale(gen) {
			return
		}
		bgCtx := context.Background()
		data, err := json.Marshal(facility)
		if err != nil {
			return
		}
		items := map[string][]byte{
			providers.FacilityIDCacheKey(facility.ID):     data,
			providers.FacilitySlugCacheKey(facility.Slug): data,
		}
		if err := a.cache.SetMulti(bgCtx, items, a.facilityTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache facility")
		}
	}()

	return facility, nil
}

// GetByIDs retrieves multiple facilities by IDs with batch caching. The
// result follows the order of ids.
func (a *CachedFacilityAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Facility, error) {
	if len(ids) == 0 {
		return []*entities.Facility{}, nil
	}

	cacheKeys := make([]string, len(ids))
	for i, id := range ids {
		cacheKeys[i] = providers.FacilityIDCacheKey(id)
	}

	cached, err := a.cache.GetMulti(ctx, cacheKeys)
	if err != nil {
		cached = nil
	}

	found := make(map[string]*entities.Facility, len(ids))
	missingIDs := make([]string, 0)
	for i, id := range ids {
		if data, ok := cached[cacheKeys[i]]; ok {
			var facility entities.Facility
			if err := json.Unmarshal(data, &facility); err == nil {
				found[id] = &facility
				continue
			}
		}
		missingIDs = append(missingIDs, id)
	}

	if len(missingIDs) > 0 {
		gen := a.generation.Load()
		dbFacilities, err := a.adapter.GetByIDs(ctx, missingIDs)
		if err != nil {
			return nil, err
		}
		for _, f := range dbFacilities {
			found[f.ID] = f
		}

		go func() {
			if a.stale(gen) {
				return
			}
			bgCtx := context.Background()
			items := make(map[string][]byte, len(dbFacilities))
			for _, facility := range dbFacilities {
				if data, err := json.Marshal(facility); err == nil {
					items[providers.FacilityIDCacheKey(facility.ID)] = data
				}
			}
			if len(items) > 0 {
				if err := a.cache.SetMulti(bgCtx, items, a.facilityTTL); err != nil {
					log.Warn().Err(err).Int("count", len(items)).Msg("failed to batch cache facilities")
				}
			}
		}()
	}

	facilities := make([]*entities.Facility, 0, len(found))
	for _, id := range ids {
		if f, ok := found[id]; ok {
			facilities = append(facilities, f)
		}
	}
	return facilities, nil
}

// List retrieves a list of facilities with caching
func (a *CachedFacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	cacheKey := facilitiesListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facilities []*entities.Facility
		if err := json.Unmarshal(cached, &facilities); err == nil {
			return facilities, nil
		}
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached facilities list")
	}

	gen := a.generation.Load()
	facilities, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		if a.stale(gen) {
			return
		}
		bgCtx := context.Background()
		if data, err := json.Marshal(facilities); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, a.listTTL); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache facilities list")
			}
		}
	}()

	return facilities, nil
}

// SlugExists is never cached; it guards inserts
func (a *CachedFacilityAdapter) SlugExists(ctx context.Context, slug string) (bool, error) {
	return a.adapter.SlugExists(ctx, slug)
}

// Create creates a facility and invalidates list caches
func (a *CachedFacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	a.generation.Add(1)
	if err := a.adapter.Create(ctx, facility); err != nil {
		return err
	}
	a.invalidate(ctx, facility.ID, facility.Slug)
	return nil
}

// Update updates a facility and invalidates its caches
func (a *CachedFacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	a.generation.Add(1)
	if err := a.adapter.Update(ctx, facility); err != nil {
		return err
	}
	a.invalidate(ctx, facility.ID, facility.Slug)
	return nil
}

// UpdateStatus records a moderation decision and invalidates caches
func (a *CachedFacilityAdapter) UpdateStatus(ctx context.Context, id string, status entities.FacilityStatus, rejectionReason string) error {
	a.generation.Add(1)
	if err := a.adapter.UpdateStatus(ctx, id, status, rejectionReason); err != nil {
		return err
	}
	a.invalidate(ctx, id, "")
	return nil
}

// Delete removes a facility and invalidates caches
func (a *CachedFacilityAdapter) Delete(ctx context.Context, id string) error {
	a.generation.Add(1)
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, id, "")
	return nil
}

func (a *CachedFacilityAdapter) stale(gen uint64) bool {
	return a.generation.Load() != gen
}

// invalidate drops the single-facility keys and every list. The slug key
// is dropped by pattern when the slug is not known to the caller.
func (a *CachedFacilityAdapter) invalidate(ctx context.Context, id, slug string) {
	a.generation.Add(1)
	if err := a.cache.Delete(ctx, providers.FacilityIDCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("facility_id", id).Msg("failed to invalidate facility cache")
	}
	slugPattern := providers.FacilitySlugCacheKey("*")
	if slug != "" {
		slugPattern = providers.FacilitySlugCacheKey(slug)
	}
	if err := a.cache.DeletePattern(ctx, slugPattern); err != nil {
		log.Warn().Err(err).Str("pattern", slugPattern).Msg("failed to invalidate facility slug cache")
	}
	if err := a.cache.DeletePattern(ctx, providers.FacilityListCachePrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate facilities list cache")
	}
}
