package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/cache"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/events"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/handlers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/loaders"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/middleware"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/routes"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/mocks"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/slug"
)

func listing(id, name, city, region, abbr, typeSlug string) *entities.Facility {
	return &entities.Facility{
		ID:         id,
		Name:       name,
		Slug:       slug.Facility(name, city, abbr),
		City:       city,
		Region:     region,
		RegionAbbr: abbr,
		TypeSlug:   typeSlug,
		Status:     entities.FacilityStatusActive,
		UpdatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func directoryListings() []*entities.Facility {
	facilities := []*entities.Facility{
		listing("01", "Jansen Elektra", "Utrecht", "Utrecht", "UT", "elektra-installatie"),
		listing("02", "De Vries Installatie", "Amersfoort", "Utrecht", "UT", "elektra-installatie"),
		listing("03", "Storing 24", "Utrecht", "Utrecht", "UT", "storingsdienst"),
		listing("04", "Bakker Laadpalen", "Zeist", "Utrecht", "UT", "laadpaal-installatie"),
		listing("05", "Haarlem Elektro", "Haarlem", "Noord-Holland", "NH", "elektra-installatie"),
		listing("06", "Amstel Stroom", "Amsterdam", "Noord-Holland", "NH", "storingsdienst"),
		listing("07", "Utrechtse Groepenkast", "Nieuwegein", "Utrecht", "UT", "elektra-installatie"),
		listing("08", "Zeeuws Licht", "Middelburg", "Zeeland", "ZE", "elektra-installatie"),
	}
	rating, reviews := 4.8, 120
	facilities[0].Rating, facilities[0].ReviewCount = &rating, &reviews
	facilities[0].Coordinates = &entities.Coordinates{Latitude: 52.0894, Longitude: 5.1101}
	facilities[5].Coordinates = &entities.Coordinates{Latitude: 52.3791, Longitude: 4.9003}
	return facilities
}

type testAPI struct {
	store    *mocks.FacilityStore
	claims   *mocks.MockClaimRepository
	feedback *mocks.MockFeedbackRepository
	bus      *mocks.RecordingEventBus
	stream   *events.MemoryEventBus
	events   *handlers.EventStreamHandler
	cache    *cache.MemoryAdapter
	handler  http.Handler
}

type apiOption func(*routes.Options)

func withRateLimit(perMinute, burst int) apiOption {
	return func(o *routes.Options) {
		o.RateLimiter = middleware.NewRateLimiter(perMinute, burst, nil)
	}
}

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	api := &testAPI{
		store:    mocks.NewFacilityStore(directoryListings()...),
		claims:   new(mocks.MockClaimRepository),
		feedback: new(mocks.MockFeedbackRepository),
		bus:      &mocks.RecordingEventBus{},
		stream:   events.NewMemoryEventBus(),
		cache:    cache.NewMemoryAdapter(500, time.Minute),
	}
	api.events = handlers.NewEventStreamHandler(api.stream, 20*time.Millisecond)
	reference := mocks.DutchReference()

	directory := services.NewDirectoryService(api.store, reference)
	invalidation := services.NewCacheInvalidationService(api.cache, api.bus)

	h := routes.Handlers{
		Directory:  handlers.NewDirectoryHandler(directory),
		Search:     handlers.NewSearchHandler(services.NewSearchService(directory, nil)),
		Submission: handlers.NewSubmissionHandler(services.NewSubmissionService(api.store, reference, api.bus)),
		Claim:      handlers.NewClaimHandler(services.NewClaimService(api.claims, api.store)),
		Feedback:   handlers.NewFeedbackHandler(services.NewFeedbackService(api.feedback), api.cache),
		Admin:      handlers.NewAdminHandler(services.NewModerationService(api.store, nil, api.bus), directory, invalidation),
		Events:     api.events,
	}
	o := routes.Options{
		Cache:   middleware.NewCacheMiddleware(api.cache, nil, time.Minute),
		Loaders: loaders.Middleware(api.store),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.RateLimiter != nil {
		t.Cleanup(o.RateLimiter.Stop)
	}

	api.handler = routes.NewRouter(h, o).SetupRoutes()
	return api
}

func (a *testAPI) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func slugsOf(summaries []entities.FacilitySummary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.Slug)
	}
	return out
}
