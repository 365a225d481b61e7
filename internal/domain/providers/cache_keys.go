package providers

import "fmt"

// Cache key layout shared by the repository cache, the HTTP response cache
// and the event driven invalidation
const (
	FacilityCachePrefix     = "facility:"
	FacilityListCachePrefix = "facilities:list:"
	ResponseCachePrefix     = "http:cache:"
)

// FacilityIDCacheKey is the cache key of a facility looked up by ID
func FacilityIDCacheKey(id string) string {
	return fmt.Sprintf("%sid:%s", FacilityCachePrefix, id)
}

// FacilitySlugCacheKey is the cache key of a facility looked up by slug
func FacilitySlugCacheKey(slug string) string {
	return fmt.Sprintf("%sslug:%s", FacilityCachePrefix, slug)
}

// ResponseCachePattern matches every cached response whose path starts
// with pathPrefix
func ResponseCachePattern(pathPrefix string) string {
	return ResponseCachePrefix + "GET:" + pathPrefix + "*"
}
