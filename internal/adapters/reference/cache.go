package reference

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
)

// Cache memoizes reference data for the life of the process. Concurrent
// first reads share one load; failed loads are not cached. Invalidate drops
// the cached sets, and a load that started before the invalidation does not
// repopulate them.
type Cache struct {
	source repositories.ReferenceRepository
	group  singleflight.Group

	mu         sync.RWMutex
	generation uint64
	regions    []entities.Region
	types      []entities.FacilityType
}

// Ensure Cache implements ReferenceRepository
var _ repositories.ReferenceRepository = (*Cache)(nil)

// NewCache wraps source with a populate-once cache
func NewCache(source repositories.ReferenceRepository) *Cache {
	return &Cache{source: source}
}

// Regions returns the cached region set, loading it on first use
func (c *Cache) Regions(ctx context.Context) ([]entities.Region, error) {
	c.mu.RLock()
	regions, gen := c.regions, c.generation
	c.mu.RUnlock()
	if regions != nil {
		return append([]entities.Region(nil), regions...), nil
	}

	v, err, _ := c.group.Do("regions", func() (interface{}, error) {
		loaded, err := c.source.Regions(ctx)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			loaded = []entities.Region{}
		}
		c.mu.Lock()
		if c.generation == gen {
			c.regions = loaded
		}
		c.mu.Unlock()
		log.Debug().Int("count", len(loaded)).Msg("loaded regions")
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]entities.Region(nil), v.([]entities.Region)...), nil
}

// FacilityTypes returns the cached facility type set, loading it on first use
func (c *Cache) FacilityTypes(ctx context.Context) ([]entities.FacilityType, error) {
	c.mu.RLock()
	types, gen := c.types, c.generation
	c.mu.RUnlock()
	if types != nil {
		return append([]entities.FacilityType(nil), types...), nil
	}

	v, err, _ := c.group.Do("types", func() (interface{}, error) {
		loaded, err := c.source.FacilityTypes(ctx)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			loaded = []entities.FacilityType{}
		}
		c.mu.Lock()
		if c.generation == gen {
			c.types = loaded
		}
		c.mu.Unlock()
		log.Debug().Int("count", len(loaded)).Msg("loaded facility types")
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]entities.FacilityType(nil), v.([]entities.FacilityType)...), nil
}

// Invalidate drops both cached sets; the next read reloads them
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.regions = nil
	c.types = nil
	c.mu.Unlock()
	c.group.Forget("regions")
	c.group.Forget("types")
	log.Info().Msg("reference data cache invalidated")
}
