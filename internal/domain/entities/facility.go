package entities

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/MarvinNL046/vindelektricien-sub000/pkg/slug"
)

// FacilityStatus is the moderation state of a listing
type FacilityStatus string

const (
	FacilityStatusActive   FacilityStatus = "active"
	FacilityStatusPending  FacilityStatus = "pending"
	FacilityStatusRejected FacilityStatus = "rejected"
)

// Valid reports whether s is a known facility status
func (s FacilityStatus) Valid() bool {
	switch s {
	case FacilityStatusActive, FacilityStatusPending, FacilityStatusRejected:
		return true
	}
	return false
}

// Facility represents a listed business or treatment center
type Facility struct {
	ID                  string         `json:"id" db:"id"`
	Name                string         `json:"name" db:"name"`
	Slug                string         `json:"slug" db:"slug"`
	Type                string         `json:"type" db:"type"`
	TypeSlug            string         `json:"type_slug" db:"type_slug"`
	Address             string         `json:"address,omitempty" db:"address"`
	City                string         `json:"city" db:"city"`
	County              string         `json:"county,omitempty" db:"county"`
	Region              string         `json:"region" db:"region"`
	RegionAbbr          string         `json:"region_abbr" db:"region_abbr"`
	PostalCode          string         `json:"postal_code,omitempty" db:"postal_code"`
	Country             string         `json:"country" db:"country"`
	Coordinates         *Coordinates   `json:"coordinates,omitempty" db:"-"`
	Phone               string         `json:"phone,omitempty" db:"phone"`
	Email               string         `json:"email,omitempty" db:"email"`
	Website             string         `json:"website,omitempty" db:"website"`
	Description         string         `json:"description,omitempty" db:"description"`
	Amenities           []string       `json:"amenities,omitempty" db:"amenities"`
	YearEstablished     string         `json:"year_established,omitempty" db:"year_established"`
	OpeningHours        string         `json:"opening_hours,omitempty" db:"opening_hours"`
	HasEmergencyService bool           `json:"has_emergency_service" db:"has_emergency_service"`
	Rating              *float64       `json:"rating,omitempty" db:"rating"`
	ReviewCount         *int           `json:"review_count,omitempty" db:"review_count"`
	Photo               string         `json:"photo,omitempty" db:"photo"`
	Photos              []string       `json:"photos,omitempty" db:"photos"`
	Status              FacilityStatus `json:"status" db:"status"`
	RejectionReason     string         `json:"rejection_reason,omitempty" db:"rejection_reason"`
	Source              string         `json:"source,omitempty" db:"source"`
	DiscoveredAt        *time.Time     `json:"discovered_at,omitempty" db:"discovered_at"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// FacilitySummary is the trimmed projection returned by search and listings
type FacilitySummary struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	RegionAbbr  string   `json:"region_abbr"`
	Type        string   `json:"type"`
	TypeSlug    string   `json:"type_slug"`
	Address     string   `json:"address,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Photo       string   `json:"photo,omitempty"`
}

// Summary projects the facility onto its search result shape
func (f *Facility) Summary() FacilitySummary {
	return FacilitySummary{
		Name:        f.Name,
		Slug:        f.Slug,
		City:        f.City,
		Region:      f.Region,
		RegionAbbr:  f.RegionAbbr,
		Type:        f.Type,
		TypeSlug:    f.TypeSlug,
		Address:     f.Address,
		Rating:      f.Rating,
		ReviewCount: f.ReviewCount,
		Photo:       f.Photo,
	}
}

// Summaries projects a list of facilities, preserving order
func Summaries(facilities []*Facility) []FacilitySummary {
	out := make([]FacilitySummary, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, f.Summary())
	}
	return out
}

// DeriveSlug computes the canonical slug from name, city and region abbreviation
func (f *Facility) DeriveSlug() string {
	return slug.Facility(f.Name, f.City, f.RegionAbbr)
}

// InRegion reports whether the facility belongs to region, given either as
// full name or abbreviation. The comparison ignores case.
func (f *Facility) InRegion(region string) bool {
	region = strings.TrimSpace(region)
	if region == "" {
		return false
	}
	return strings.EqualFold(f.Region, region) || strings.EqualFold(f.RegionAbbr, region)
}

// IsActive reports whether the facility is publicly listed
func (f *Facility) IsActive() bool {
	return f.Status == FacilityStatusActive
}

// HasPhoto reports whether at least one photo is attached
func (f *Facility) HasPhoto() bool {
	return f.Photo != "" || len(f.Photos) > 0
}

// RatingValue returns the rating or zero when unrated
func (f *Facility) RatingValue() float64 {
	if f.Rating == nil {
		return 0
	}
	return *f.Rating
}

// ReviewCountValue returns the review count or zero when unknown
func (f *Facility) ReviewCountValue() int {
	if f.ReviewCount == nil {
		return 0
	}
	return *f.ReviewCount
}

// MergeMissing copies fields from src that are empty on f. Populated fields
// on f are never overwritten. It reports whether anything changed.
func (f *Facility) MergeMissing(src *Facility) bool {
	if src == nil {
		return false
	}
	changed := false
	fill := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
			changed = true
		}
	}

	fill(&f.Address, src.Address)
	fill(&f.County, src.County)
	fill(&f.PostalCode, src.PostalCode)
	fill(&f.Country, src.Country)
	fill(&f.Phone, src.Phone)
	fill(&f.Email, src.Email)
	fill(&f.Website, src.Website)
	fill(&f.Description, src.Description)
	fill(&f.YearEstablished, src.YearEstablished)
	fill(&f.OpeningHours, src.OpeningHours)
	fill(&f.Photo, src.Photo)
	fill(&f.Source, src.Source)

	if f.Coordinates == nil && src.Coordinates != nil {
		c := *src.Coordinates
		f.Coordinates = &c
		changed = true
	}
	if f.Rating == nil && src.Rating != nil {
		r := *src.Rating
		f.Rating = &r
		changed = true
	}
	if f.ReviewCount == nil && src.ReviewCount != nil {
		n := *src.ReviewCount
		f.ReviewCount = &n
		changed = true
	}
	if len(f.Amenities) == 0 && len(src.Amenities) > 0 {
		f.Amenities = append([]string(nil), src.Amenities...)
		changed = true
	}
	if len(f.Photos) == 0 && len(src.Photos) > 0 {
		f.Photos = append([]string(nil), src.Photos...)
		changed = true
	}
	if !f.HasEmergencyService && src.HasEmergencyService {
		f.HasEmergencyService = true
		changed = true
	}
	if f.DiscoveredAt == nil && src.DiscoveredAt != nil {
		t := *src.DiscoveredAt
		f.DiscoveredAt = &t
		changed = true
	}
	return changed
}

// UnmarshalJSON accepts the legacy field names used by the US and NL data
// files (state/province, state_abbr/province_abbr, zip_code) next to the
// canonical region fields.
func (f *Facility) UnmarshalJSON(data []byte) error {
	type plain Facility
	aux := struct {
		*plain
		State        string `json:"state"`
		Province     string `json:"province"`
		StateAbbr    string `json:"state_abbr"`
		ProvinceAbbr string `json:"province_abbr"`
		ZipCode      string `json:"zip_code"`
		FacilityType string `json:"facility_type"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if f.Region == "" {
		f.Region = firstNonEmpty(aux.State, aux.Province)
	}
	if f.RegionAbbr == "" {
		f.RegionAbbr = firstNonEmpty(aux.StateAbbr, aux.ProvinceAbbr)
	}
	if f.PostalCode == "" {
		f.PostalCode = aux.ZipCode
	}
	if f.Type == "" {
		f.Type = aux.FacilityType
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
