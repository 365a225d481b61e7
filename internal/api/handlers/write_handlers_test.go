package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

func TestSubmissionHandler_SubmitFacility(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/facilities", map[string]interface{}{
		"name":      "Nieuwe Stroom",
		"type_slug": "elektra-installatie",
		"city":      "Utrecht",
		"province":  "Utrecht",
		"email":     "info@nieuwestroom.nl",
		"latitude":  52.1,
		"longitude": 5.1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[map[string]string](t, rec)
	assert.Equal(t, "nieuwe-stroom-utrecht-ut", got["slug"])
	assert.Equal(t, "pending", got["status"])
	assert.NotEmpty(t, got["id"])

	stored, err := api.store.GetBySlug(t.Context(), "nieuwe-stroom-utrecht-ut")
	require.NoError(t, err)
	assert.Equal(t, entities.FacilityStatusPending, stored.Status)
	require.NotNil(t, stored.Coordinates)

	// pending listings stay off the public API
	rec = api.do(t, http.MethodGet, "/api/facilities/nieuwe-stroom-utrecht-ut", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmissionHandler_SubmitFacility_DuplicateNameGetsSuffix(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/facilities", map[string]string{
		"name":       "Jansen Elektra",
		"type_slug":  "elektra-installatie",
		"city":       "Utrecht",
		"state_abbr": "UT",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "jansen-elektra-utrecht-ut-2", decode[map[string]string](t, rec)["slug"])
}

func TestSubmissionHandler_SubmitFacility_Invalid(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"malformed json", `{"name":`, "invalid request payload"},
		{"missing name", map[string]string{"type_slug": "elektra-installatie", "city": "Utrecht", "region": "UT"}, "name is required"},
		{"bad email", map[string]string{"name": "A", "type_slug": "elektra-installatie", "city": "Utrecht", "region": "UT", "email": "nope"}, "email must be a valid email address"},
		{"unknown region", map[string]string{"name": "A", "type_slug": "elektra-installatie", "city": "Gent", "region": "Oost-Vlaanderen"}, "region"},
		{"unknown type", map[string]string{"name": "A", "type_slug": "loodgieter", "city": "Utrecht", "region": "UT"}, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/facilities", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, strings.ToLower(decode[map[string]string](t, rec)["error"]), tt.message)
		})
	}
	assert.Equal(t, 8, api.store.Len())
}

func TestClaimHandler_CreateClaim(t *testing.T) {
	api := newTestAPI(t)
	api.claims.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Claim) bool {
		return c.FacilityID == "06" && c.FacilityName == "Amstel Stroom" && c.Status == entities.ClaimStatusPending
	})).Return(nil)

	rec := api.do(t, http.MethodPost, "/api/claims", map[string]string{
		"facility_slug": "amstel-stroom-amsterdam-nh",
		"contact_email": "eigenaar@amstelstroom.nl",
		"job_title":     "Eigenaar",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pending", decode[map[string]string](t, rec)["status"])
	api.claims.AssertExpectations(t)
}

func TestClaimHandler_CreateClaim_Invalid(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"unknown facility", map[string]string{"facility_id": "missing", "contact_email": "a@b.nl"}},
		{"no facility", map[string]string{"contact_email": "a@b.nl"}},
		{"no email", map[string]string{"facility_id": "01"}},
		{"bad verification method", map[string]string{"facility_id": "01", "contact_email": "a@b.nl", "verification_method": "fax"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/claims", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	api.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFeedbackHandler_SubmitFeedback(t *testing.T) {
	api := newTestAPI(t)
	api.feedback.On("Create", mock.Anything, mock.AnythingOfType("*entities.Feedback")).Return(nil).Once()

	body := map[string]interface{}{"type": "rating", "rating": 5, "page_url": "/elektricien/utrecht"}

	rec := api.do(t, http.MethodPost, "/api/feedback", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[map[string]string](t, rec)
	assert.Equal(t, "received", got["status"])
	assert.NotEmpty(t, got["id"])

	rec = api.do(t, http.MethodPost, "/api/feedback", body)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "duplicate_ignored", decode[map[string]string](t, rec)["status"])

	api.feedback.AssertExpectations(t)
}

func TestFeedbackHandler_SubmitFeedback_Invalid(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []map[string]interface{}{
		{"type": "rating", "rating": 9},
		{"type": "rating"},
		{"type": "comment", "message": "  "},
		{"type": "bug", "message": "broken"},
	} {
		rec := api.do(t, http.MethodPost, "/api/feedback", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	api.feedback.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPublicWrites_AreRateLimited(t *testing.T) {
	api := newTestAPI(t, withRateLimit(1, 1))
	api.feedback.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := api.do(t, http.MethodPost, "/api/feedback", map[string]interface{}{"type": "comment", "message": "top site"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/feedback", map[string]interface{}{"type": "comment", "message": "nog een"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// reads are not limited
	rec = api.do(t, http.MethodGet, "/api/facilities", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
