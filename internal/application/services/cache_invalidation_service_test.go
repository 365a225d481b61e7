package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/cache"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/events"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
)

func seedCache(t *testing.T, mem *cache.MemoryAdapter, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, mem.Set(context.Background(), k, []byte("cached"), 300))
	}
}

func cached(mem *cache.MemoryAdapter, key string) bool {
	ok, _ := mem.Exists(context.Background(), key)
	return ok
}

func TestCacheInvalidationService_HandleEvent(t *testing.T) {
	mem := cache.NewMemoryAdapter(100, time.Minute)
	svc := services.NewCacheInvalidationService(mem, events.NewMemoryEventBus())

	facilityKey := providers.FacilityIDCacheKey("01")
	slugKey := providers.FacilitySlugCacheKey("jansen-elektra-utrecht-ut")
	otherKey := providers.FacilityIDCacheKey("02")
	listKey := providers.FacilityListCachePrefix + "active::::0:0"
	detailResponse := providers.ResponseCachePrefix + "GET:/api/facilities/jansen-elektra-utrecht-ut:e3b0c442"
	searchResponse := providers.ResponseCachePrefix + "GET:/api/search:9f86d081"
	citiesResponse := providers.ResponseCachePrefix + "GET:/api/regions/utrecht/cities:e3b0c442"
	seedCache(t, mem, facilityKey, slugKey, otherKey, listKey, detailResponse, searchResponse, citiesResponse)

	f := &entities.Facility{ID: "01", Slug: "jansen-elektra-utrecht-ut"}
	svc.HandleEvent(entities.NewFacilityEvent(f, entities.FacilityEventTypeUpdated))

	for _, k := range []string{facilityKey, slugKey, listKey, detailResponse, searchResponse, citiesResponse} {
		assert.False(t, cached(mem, k), k)
	}
	assert.True(t, cached(mem, otherKey), "other facilities stay cached")
}

func TestCacheInvalidationService_StartStop(t *testing.T) {
	mem := cache.NewMemoryAdapter(100, time.Minute)
	bus := events.NewMemoryEventBus()
	svc := services.NewCacheInvalidationService(mem, bus)

	require.NoError(t, svc.Start())
	defer svc.Stop()

	key := providers.FacilityIDCacheKey("06")
	seedCache(t, mem, key)

	f := &entities.Facility{ID: "06", Slug: "amstel-stroom-amsterdam-nh"}
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelFacilityUpdates, entities.NewFacilityEvent(f, entities.FacilityEventTypeApproved)))

	assert.Eventually(t, func() bool { return !cached(mem, key) }, time.Second, 10*time.Millisecond)
}
