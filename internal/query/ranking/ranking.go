// Package ranking orders facility lists for the featured, recent, nearby
// and related listings.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

const earthRadiusKm = 6371.0

// Related scoring weights
const (
	scoreSameCity          = 100
	scoreSameTypeAndCounty = 80
	scoreSameTypeAndRegion = 50
	scoreSameType          = 40
	scoreSameCounty        = 30
	scoreSameRegion        = 20
	scoreBonus             = 5

	// bonusReviewThreshold is the review count above which a listing gets
	// the review bonus
	bonusReviewThreshold = 10
)

// DistanceKm returns the great-circle distance between two points
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// FeaturedScore weighs the rating by the log of the review volume
func FeaturedScore(f *entities.Facility) float64 {
	return f.RatingValue() * math.Log(float64(f.ReviewCountValue())+1)
}

// Featured returns rated facilities with at least one review, best first.
// Ties fall back to the plain rating and then the slug.
func Featured(facilities []*entities.Facility, limit int) []*entities.Facility {
	out := make([]*entities.Facility, 0, len(facilities))
	for _, f := range facilities {
		if f.Rating != nil && f.ReviewCountValue() > 0 {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := FeaturedScore(out[i]), FeaturedScore(out[j])
		if si != sj {
			return si > sj
		}
		if out[i].RatingValue() != out[j].RatingValue() {
			return out[i].RatingValue() > out[j].RatingValue()
		}
		return out[i].Slug < out[j].Slug
	})
	return truncate(out, limit)
}

// RecentlyUpdated returns facilities newest update first
func RecentlyUpdated(facilities []*entities.Facility, limit int) []*entities.Facility {
	out := make([]*entities.Facility, 0, len(facilities))
	for _, f := range facilities {
		if !f.UpdatedAt.IsZero() {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
	return truncate(out, limit)
}

// NearbyFacility is a facility with its distance from the search point
type NearbyFacility struct {
	*entities.Facility
	DistanceKm float64 `json:"distance_km"`
}

// Nearby returns facilities with coordinates within radiusKm of the point,
// closest first
func Nearby(facilities []*entities.Facility, lat, lon, radiusKm float64, limit int) []NearbyFacility {
	out := make([]NearbyFacility, 0)
	for _, f := range facilities {
		if f.Coordinates == nil {
			continue
		}
		d := DistanceKm(lat, lon, f.Coordinates.Latitude, f.Coordinates.Longitude)
		if d <= radiusKm {
			out = append(out, NearbyFacility{Facility: f, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Slug < out[j].Slug
	})
	return truncate(out, limit)
}

// RelatedScore scores candidate against target. The second return is the
// part of the score that comes from a shared city, type, county or region;
// quality bonuses alone do not make a listing related.
func RelatedScore(target, candidate *entities.Facility) (score, match int) {
	if target.City != "" && strings.EqualFold(target.City, candidate.City) {
		match += scoreSameCity
	}

	sameType := target.TypeSlug != "" && target.TypeSlug == candidate.TypeSlug
	sameCounty := target.County != "" && strings.EqualFold(target.County, candidate.County)
	sameRegion := candidate.InRegion(target.RegionAbbr) || candidate.InRegion(target.Region)

	switch {
	case sameType && sameCounty:
		match += scoreSameTypeAndCounty
	case sameType:
		match += scoreSameType
	case sameCounty:
		match += scoreSameCounty
	}
	if sameType && sameRegion {
		match += scoreSameTypeAndRegion
	}
	if sameRegion {
		match += scoreSameRegion
	}

	score = match
	if candidate.Rating != nil {
		score += scoreBonus
	}
	if candidate.HasPhoto() {
		score += scoreBonus
	}
	if candidate.ReviewCountValue() > bonusReviewThreshold {
		score += scoreBonus
	}
	return score, match
}

// Related returns the listings most similar to target, excluding target
// itself. Equal scores are ordered by distance when both sides have
// coordinates, then by slug.
func Related(target *entities.Facility, candidates []*entities.Facility, limit int) []*entities.Facility {
	type scored struct {
		facility *entities.Facility
		score    int
		distance float64
	}

	list := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.Slug == target.Slug {
			continue
		}
		score, match := RelatedScore(target, c)
		if match == 0 {
			continue
		}
		d := math.Inf(1)
		if target.Coordinates != nil && c.Coordinates != nil {
			d = DistanceKm(target.Coordinates.Latitude, target.Coordinates.Longitude, c.Coordinates.Latitude, c.Coordinates.Longitude)
		}
		list = append(list, scored{facility: c, score: score, distance: d})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		if list[i].distance != list[j].distance {
			return list[i].distance < list[j].distance
		}
		return list[i].facility.Slug < list[j].facility.Slug
	})

	out := make([]*entities.Facility, 0, len(list))
	for _, s := range truncate(list, limit) {
		out = append(out, s.facility)
	}
	return out
}
