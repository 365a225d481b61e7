package routes

import (
	"net/http"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/handlers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/middleware"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/observability"
)

// Handlers groups the route handlers
type Handlers struct {
	Directory  *handlers.DirectoryHandler
	Search     *handlers.SearchHandler
	Submission *handlers.SubmissionHandler
	Claim      *handlers.ClaimHandler
	Feedback   *handlers.FeedbackHandler
	Admin      *handlers.AdminHandler
	// Events is optional; nil leaves the admin event stream unrouted
	Events *handlers.EventStreamHandler
}

// Options carries the cross-cutting pieces of the HTTP stack. Nil fields
// switch the matching middleware off.
type Options struct {
	Cache          *middleware.CacheMiddleware
	RateLimiter    *middleware.RateLimiter
	Loaders        func(http.Handler) http.Handler
	Metrics        *observability.Metrics
	AllowedOrigins []string
}

// Router holds all route handlers
type Router struct {
	mux      *http.ServeMux
	handlers Handlers
	opts     Options
}

// NewRouter creates a new router
func NewRouter(h Handlers, opts Options) *Router {
	return &Router{
		mux:      http.NewServeMux(),
		handlers: h,
		opts:     opts,
	}
}

// limited wraps a public write endpoint in the per-client rate limiter
func (r *Router) limited(h http.HandlerFunc) http.Handler {
	if r.opts.RateLimiter == nil {
		return h
	}
	return r.opts.RateLimiter.LimitFunc(h)
}

// withLoaders attaches request scoped batch loaders
func (r *Router) withLoaders(h http.HandlerFunc) http.Handler {
	if r.opts.Loaders == nil {
		return h
	}
	return r.opts.Loaders(h)
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	d := r.handlers.Directory
	r.mux.HandleFunc("GET /api/facilities", d.ListFacilities)
	r.mux.HandleFunc("GET /api/facilities/featured", d.GetFeaturedFacilities)
	r.mux.HandleFunc("GET /api/facilities/recent", d.GetRecentlyUpdated)
	r.mux.HandleFunc("GET /api/facilities/nearby", d.GetNearbyFacilities)
	r.mux.HandleFunc("GET /api/facilities/{slug}", d.GetFacility)
	r.mux.HandleFunc("GET /api/facilities/{slug}/related", d.GetRelatedFacilities)

	r.mux.HandleFunc("GET /api/regions", d.ListRegions)
	r.mux.HandleFunc("GET /api/regions/{slug}", d.GetRegion)
	r.mux.HandleFunc("GET /api/regions/{slug}/cities", d.GetRegionCities)
	r.mux.HandleFunc("GET /api/regions/{slug}/cities/{city}", d.GetCityFacilities)
	r.mux.HandleFunc("GET /api/types", d.ListFacilityTypes)
	r.mux.HandleFunc("GET /api/types/{slug}", d.GetFacilityType)
	r.mux.HandleFunc("GET /api/stats", d.GetStats)

	r.mux.HandleFunc("GET /api/search", r.handlers.Search.Search)
	r.mux.HandleFunc("GET /api/suggest", r.handlers.Search.Suggest)

	// Public writes
	r.mux.Handle("POST /api/facilities", r.limited(r.handlers.Submission.SubmitFacility))
	r.mux.Handle("POST /api/claims", r.limited(r.handlers.Claim.CreateClaim))
	r.mux.Handle("POST /api/feedback", r.limited(r.handlers.Feedback.SubmitFeedback))

	// Admin
	a := r.handlers.Admin
	r.mux.HandleFunc("GET /api/admin/facilities", a.ListFacilities)
	r.mux.HandleFunc("PATCH /api/admin/facilities/{id}", a.UpdateFacilityStatus)
	r.mux.HandleFunc("DELETE /api/admin/facilities/{id}", a.DeleteFacility)
	r.mux.HandleFunc("POST /api/admin/reference/invalidate", a.InvalidateReference)

	r.mux.Handle("GET /api/admin/claims", r.withLoaders(r.handlers.Claim.ListClaims))
	r.mux.HandleFunc("PATCH /api/admin/claims/{id}", r.handlers.Claim.UpdateClaimStatus)
	r.mux.HandleFunc("DELETE /api/admin/claims/{id}", r.handlers.Claim.DeleteClaim)

	r.mux.HandleFunc("GET /api/admin/feedback", r.handlers.Feedback.ListFeedback)

	if r.handlers.Events != nil {
		r.mux.HandleFunc("GET /api/admin/events", r.handlers.Events.StreamEvents)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux

	if r.opts.Cache != nil {
		handler = r.opts.Cache.Middleware(handler)
	}

	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.opts.Metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.opts.AllowedOrigins)(handler)

	return handler
}
