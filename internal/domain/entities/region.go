package entities

import (
	"strings"

	"github.com/MarvinNL046/vindelektricien-sub000/pkg/slug"
)

// Region is a top-level administrative area (US state, NL province)
type Region struct {
	Name           string   `json:"name"`
	Abbr           string   `json:"abbr"`
	Slug           string   `json:"slug"`
	Capital        string   `json:"capital,omitempty"`
	MajorCities    []string `json:"major_cities,omitempty"`
	Municipalities []string `json:"municipalities,omitempty"`
}

// Matches reports whether value names this region by name, abbreviation or
// slug, ignoring case.
func (r Region) Matches(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return strings.EqualFold(r.Name, value) ||
		strings.EqualFold(r.Abbr, value) ||
		strings.EqualFold(r.Slug, value)
}

// City is derived from facility records; it is never persisted
type City struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// NewCity builds a City with its slug derived from the name
func NewCity(name, region string, count int) City {
	return City{Name: name, Slug: slug.City(name), Region: region, Count: count}
}

// FacilityType is a listing category
type FacilityType struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	SearchTerms []string `json:"search_terms,omitempty"`
}

// FindRegion returns the region matching value by name, abbreviation or slug
func FindRegion(regions []Region, value string) (Region, bool) {
	for _, r := range regions {
		if r.Matches(value) {
			return r, true
		}
	}
	return Region{}, false
}

// FindFacilityType returns the facility type with the given slug
func FindFacilityType(types []FacilityType, typeSlug string) (FacilityType, bool) {
	for _, t := range types {
		if t.Slug == typeSlug {
			return t, true
		}
	}
	return FacilityType{}, false
}

// DirectoryStats summarizes the directory for the home page counters
type DirectoryStats struct {
	TotalFacilities      int `json:"total_facilities"`
	TotalRegions         int `json:"total_regions"`
	TotalCities          int `json:"total_cities"`
	TotalTypes           int `json:"total_types"`
	WithRating           int `json:"with_rating"`
	WithPhoto            int `json:"with_photo"`
	WithEmergencyService int `json:"with_emergency_service"`
}
