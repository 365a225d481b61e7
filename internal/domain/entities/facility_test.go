package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

var (
	testRegions = []Region{
		{Name: "Utrecht", Abbr: "UT", Slug: "utrecht"},
		{Name: "Noord-Holland", Abbr: "NH", Slug: "noord-holland"},
	}
	testTypes = []FacilityType{
		{Slug: "elektra-installatie", Name: "Elektra installatie"},
		{Slug: "laadpaal-installatie", Name: "Laadpaal installatie"},
	}
)

func TestFacility_UnmarshalLegacyNames(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		region   string
		abbr     string
		postcode string
	}{
		{
			name:     "canonical",
			payload:  `{"name":"A","region":"Utrecht","region_abbr":"UT","postal_code":"3511 AB"}`,
			region:   "Utrecht",
			abbr:     "UT",
			postcode: "3511 AB",
		},
		{
			name:     "us data file",
			payload:  `{"name":"A","state":"Texas","state_abbr":"TX","zip_code":"73301"}`,
			region:   "Texas",
			abbr:     "TX",
			postcode: "73301",
		},
		{
			name:    "nl data file",
			payload: `{"name":"A","province":"Noord-Holland","province_abbr":"NH"}`,
			region:  "Noord-Holland",
			abbr:    "NH",
		},
		{
			name:    "canonical wins over legacy",
			payload: `{"name":"A","region":"Utrecht","province":"Zeeland","region_abbr":"UT","province_abbr":"ZE"}`,
			region:  "Utrecht",
			abbr:    "UT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Facility
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &f))
			assert.Equal(t, "A", f.Name)
			assert.Equal(t, tt.region, f.Region)
			assert.Equal(t, tt.abbr, f.RegionAbbr)
			assert.Equal(t, tt.postcode, f.PostalCode)
		})
	}
}

func TestFacility_JSONRoundTrip(t *testing.T) {
	rating := 4.5
	in := Facility{Name: "Jansen Elektra", Slug: "jansen-elektra-utrecht-ut", Region: "Utrecht", RegionAbbr: "UT", Rating: &rating}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Facility
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.Slug, out.Slug)
	assert.Equal(t, in.Region, out.Region)
	require.NotNil(t, out.Rating)
	assert.Equal(t, 4.5, *out.Rating)
}

func TestFacility_InRegion(t *testing.T) {
	f := &Facility{Region: "Noord-Holland", RegionAbbr: "NH"}

	assert.True(t, f.InRegion("Noord-Holland"))
	assert.True(t, f.InRegion("noord-holland"))
	assert.True(t, f.InRegion("NH"))
	assert.True(t, f.InRegion("nh"))
	assert.False(t, f.InRegion("Utrecht"))
	assert.False(t, f.InRegion(""))
}

func TestFacility_Validate(t *testing.T) {
	f := &Facility{Name: " Jansen Elektra ", City: "Utrecht", RegionAbbr: "ut", TypeSlug: "elektra-installatie"}

	require.NoError(t, f.Validate(testRegions, testTypes))
	assert.Equal(t, "Jansen Elektra", f.Name)
	assert.Equal(t, "Utrecht", f.Region)
	assert.Equal(t, "UT", f.RegionAbbr)
	assert.Equal(t, "Elektra installatie", f.Type)
	assert.Equal(t, "jansen-elektra-utrecht-ut", f.Slug)
	assert.Equal(t, FacilityStatusPending, f.Status)
}

func TestFacility_ValidateRejects(t *testing.T) {
	tests := []struct {
		name     string
		facility Facility
	}{
		{"missing name", Facility{City: "Utrecht", Region: "Utrecht", TypeSlug: "elektra-installatie"}},
		{"missing city", Facility{Name: "A", Region: "Utrecht", TypeSlug: "elektra-installatie"}},
		{"unknown region", Facility{Name: "A", City: "Gent", Region: "Vlaanderen", TypeSlug: "elektra-installatie"}},
		{"mismatched region pair", Facility{Name: "A", City: "Utrecht", Region: "Utrecht", RegionAbbr: "NH", TypeSlug: "elektra-installatie"}},
		{"unknown type", Facility{Name: "A", City: "Utrecht", Region: "Utrecht", TypeSlug: "loodgieter"}},
		{"bad rating", Facility{Name: "A", City: "Utrecht", Region: "Utrecht", TypeSlug: "elektra-installatie", Rating: ptrFloat(7)}},
		{"bad slug", Facility{Name: "A", City: "Utrecht", Region: "Utrecht", TypeSlug: "elektra-installatie", Slug: "Not A Slug"}},
		{"slug of another facility", Facility{Name: "A", City: "Utrecht", Region: "Utrecht", TypeSlug: "elektra-installatie", Slug: "jansen-elektra-utrecht-ut"}},
		{"free-form slug", Facility{Name: "A", City: "Utrecht", Region: "Utrecht", TypeSlug: "elektra-installatie", Slug: "whatever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.facility
			err := f.Validate(testRegions, testTypes)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		})
	}
}

func TestFacility_ValidateKeepsNumberedSlug(t *testing.T) {
	f := &Facility{Name: "Jansen Elektra", City: "Utrecht", RegionAbbr: "UT", TypeSlug: "elektra-installatie", Slug: "jansen-elektra-utrecht-ut-3"}

	require.NoError(t, f.Validate(testRegions, testTypes))
	assert.Equal(t, "jansen-elektra-utrecht-ut-3", f.Slug)
}

func TestFacility_ValidateEmptySlug(t *testing.T) {
	regions := []Region{{Name: "---", Abbr: "", Slug: ""}}
	f := &Facility{Name: "***", City: "!!", Region: "---", TypeSlug: "elektra-installatie"}

	err := f.Validate(regions, testTypes)
	assert.ErrorIs(t, err, ErrEmptySlug)
}

func TestFacility_MergeMissing(t *testing.T) {
	rating := 4.2
	reviews := 12
	existing := &Facility{
		Name:    "Jansen Elektra",
		Phone:   "030-1234567",
		Website: "",
		Photos:  nil,
	}
	enrichment := &Facility{
		Phone:       "06-99999999",
		Website:     "https://jansen-elektra.nl",
		Rating:      &rating,
		ReviewCount: &reviews,
		Photos:      []string{"a.jpg"},
		Coordinates: &Coordinates{Latitude: 52.09, Longitude: 5.12},
	}

	changed := existing.MergeMissing(enrichment)

	assert.True(t, changed)
	assert.Equal(t, "030-1234567", existing.Phone, "populated fields are kept")
	assert.Equal(t, "https://jansen-elektra.nl", existing.Website)
	assert.Equal(t, []string{"a.jpg"}, existing.Photos)
	require.NotNil(t, existing.Rating)
	assert.Equal(t, 4.2, *existing.Rating)
	assert.NotSame(t, enrichment.Rating, existing.Rating)

	assert.False(t, existing.MergeMissing(enrichment), "second merge is a no-op")
	assert.False(t, existing.MergeMissing(nil))
}

func TestFacility_Summary(t *testing.T) {
	f := &Facility{Name: "A", Slug: "a-utrecht-ut", City: "Utrecht", Region: "Utrecht", RegionAbbr: "UT", TypeSlug: "elektra-installatie", Phone: "1"}
	s := f.Summary()

	assert.Equal(t, "a-utrecht-ut", s.Slug)
	assert.Equal(t, "UT", s.RegionAbbr)
	assert.Len(t, Summaries([]*Facility{f, f}), 2)
}

func TestStatusChange_Validate(t *testing.T) {
	t.Run("facility reject requires reason", func(t *testing.T) {
		c := StatusChange{Status: "rejected", RejectionReason: "  "}
		assert.ErrorIs(t, c.ValidateForFacility(), ErrRejectionReasonRequired)
	})

	t.Run("claim reject requires reason", func(t *testing.T) {
		c := StatusChange{Status: "rejected"}
		assert.ErrorIs(t, c.ValidateForClaim(), ErrRejectionReasonRequired)
	})

	t.Run("reject with reason", func(t *testing.T) {
		c := StatusChange{Status: "Rejected", RejectionReason: "duplicate listing"}
		require.NoError(t, c.ValidateForClaim())
		assert.Equal(t, "rejected", c.Status)
	})

	t.Run("approve clears reason", func(t *testing.T) {
		c := StatusChange{Status: "active", RejectionReason: "stale"}
		require.NoError(t, c.ValidateForFacility())
		assert.Empty(t, c.RejectionReason)
	})

	t.Run("unknown status", func(t *testing.T) {
		c := StatusChange{Status: "approved"}
		assert.Error(t, c.ValidateForFacility())
	})
}

func ptrFloat(v float64) *float64 { return &v }
