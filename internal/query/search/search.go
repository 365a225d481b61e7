// Package search composes the public search filters over facility lists.
package search

import (
	"strings"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// noFilter is the sentinel the site sends for an unselected dropdown
const noFilter = "all"

// Criteria is a normalized search request. Empty fields do not filter.
type Criteria struct {
	Query  string
	Type   string
	Region string
}

// NewCriteria trims the raw inputs and maps "all" to no filter
func NewCriteria(query, typeSlug, region string) Criteria {
	return Criteria{
		Query:  strings.TrimSpace(query),
		Type:   normalizeOption(typeSlug),
		Region: normalizeOption(region),
	}
}

func normalizeOption(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, noFilter) {
		return ""
	}
	return v
}

// IsEmpty reports whether the criteria match every facility
func (c Criteria) IsEmpty() bool {
	return c.Query == "" && c.Type == "" && c.Region == ""
}

// Matches reports whether f satisfies every set criterion. The query is a
// case-insensitive substring of name, city or region; the type compares the
// type slug; the region accepts the name or the abbreviation.
func Matches(f *entities.Facility, c Criteria) bool {
	if c.Query != "" {
		q := strings.ToLower(c.Query)
		if !strings.Contains(strings.ToLower(f.Name), q) &&
			!strings.Contains(strings.ToLower(f.City), q) &&
			!strings.Contains(strings.ToLower(f.Region), q) {
			return false
		}
	}
	if c.Type != "" && f.TypeSlug != c.Type {
		return false
	}
	if c.Region != "" && !f.InRegion(c.Region) {
		return false
	}
	return true
}

// Filter returns the facilities matching c in their input order
func Filter(facilities []*entities.Facility, c Criteria) []*entities.Facility {
	out := make([]*entities.Facility, 0, len(facilities))
	for _, f := range facilities {
		if Matches(f, c) {
			out = append(out, f)
		}
	}
	return out
}
