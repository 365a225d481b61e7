package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware caches successful GET responses of the public read API
type CacheMiddleware struct {
	cache        providers.CacheProvider
	metrics      *observability.Metrics
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a new cache middleware. ttl applies to listing
// and detail routes; reference data and stats are kept longer and
// suggestions shorter.
func NewCacheMiddleware(cache providers.CacheProvider, metrics *observability.Metrics, ttl time.Duration) *CacheMiddleware {
	base := int(ttl.Seconds())
	if base <= 0 {
		base = 300
	}
	return &CacheMiddleware{
		cache:   cache,
		metrics: metrics,
		routeConfigs: map[string]CacheConfig{
			"/api/facilities": {TTLSeconds: base, Enabled: true},
			"/api/search":     {TTLSeconds: base, Enabled: true},
			"/api/suggest":    {TTLSeconds: base / 2, Enabled: true},
			"/api/regions":    {TTLSeconds: base * 2, Enabled: true},
			"/api/types":      {TTLSeconds: base * 2, Enabled: true},
			"/api/stats":      {TTLSeconds: base * 2, Enabled: true},
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := ResponseCacheKey(r)

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			observability.RecordCacheHit(r.Context(), m.metrics, r.URL.Path)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		observability.RecordCacheMiss(r.Context(), m.metrics, r.URL.Path)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache response")
			}
		}
	})
}

// getRouteConfig matches the exact path first and then the longest
// configured prefix that ends on a path segment boundary
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	if config, exists := m.routeConfigs[path]; exists {
		return config
	}

	best := ""
	for prefix := range m.routeConfigs {
		if strings.HasPrefix(path, prefix+"/") && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		return m.routeConfigs[best]
	}
	return CacheConfig{Enabled: false}
}

// ResponseCacheKey keeps the path readable so writes can drop every cached
// response under a path prefix; only the query string is hashed
func ResponseCacheKey(r *http.Request) string {
	hash := sha256.Sum256([]byte(r.URL.Query().Encode()))
	return providers.ResponseCachePrefix + r.Method + ":" + r.URL.Path + ":" + hex.EncodeToString(hash[:8])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
