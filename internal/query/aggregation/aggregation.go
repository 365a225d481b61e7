// Package aggregation derives counts and groupings from facility lists.
// Nothing here touches a data store.
package aggregation

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// CountByRegion counts facilities per Region name. Facilities without a
// region are skipped.
func CountByRegion(facilities []*entities.Facility) map[string]int {
	counts := make(map[string]int)
	for _, f := range facilities {
		if f.Region == "" {
			continue
		}
		counts[f.Region]++
	}
	return counts
}

// CountByCity counts facilities per raw city string inside region, which
// may be the region name or its abbreviation.
func CountByCity(facilities []*entities.Facility, region string) map[string]int {
	counts := make(map[string]int)
	for _, f := range facilities {
		if f.City == "" || !f.InRegion(region) {
			continue
		}
		counts[f.City]++
	}
	return counts
}

// CountByType counts facilities per type slug
func CountByType(facilities []*entities.Facility) map[string]int {
	counts := make(map[string]int)
	for _, f := range facilities {
		if f.TypeSlug == "" {
			continue
		}
		counts[f.TypeSlug]++
	}
	return counts
}

// GroupByFirstLetter buckets names by their first character. Letters are
// compared as-is, so "a" and "A" land in different groups. Empty names are
// skipped and each group keeps the input order.
func GroupByFirstLetter(names []string) map[string][]string {
	groups := make(map[string][]string)
	for _, name := range names {
		if name == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(name)
		key := string(r)
		groups[key] = append(groups[key], name)
	}
	return groups
}

// Cities lists the distinct cities in region with their facility counts,
// sorted by name
func Cities(facilities []*entities.Facility, region string) []entities.City {
	counts := CountByCity(facilities, region)
	regionName := region
	for _, f := range facilities {
		if f.InRegion(region) {
			regionName = f.Region
			break
		}
	}

	cities := make([]entities.City, 0, len(counts))
	for name, n := range counts {
		cities = append(cities, entities.NewCity(name, regionName, n))
	}
	sort.Slice(cities, func(i, j int) bool {
		return cities[i].Name < cities[j].Name
	})
	return cities
}

// CityNames returns the names of cities, preserving order
func CityNames(cities []entities.City) []string {
	names := make([]string, 0, len(cities))
	for _, c := range cities {
		names = append(names, c.Name)
	}
	return names
}

// Stats computes the directory counters. Region and type totals come from
// the reference sets; cities are counted case-insensitively per region.
func Stats(facilities []*entities.Facility, regions []entities.Region, types []entities.FacilityType) entities.DirectoryStats {
	stats := entities.DirectoryStats{
		TotalFacilities: len(facilities),
		TotalRegions:    len(regions),
		TotalTypes:      len(types),
	}

	cities := make(map[string]struct{})
	for _, f := range facilities {
		if f.City != "" {
			cities[strings.ToLower(f.RegionAbbr+"|"+f.City)] = struct{}{}
		}
		if f.Rating != nil {
			stats.WithRating++
		}
		if f.HasPhoto() {
			stats.WithPhoto++
		}
		if f.HasEmergencyService {
			stats.WithEmergencyService++
		}
	}
	stats.TotalCities = len(cities)
	return stats
}
