package entities

import (
	"fmt"
	"strings"

	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/slug"
)

// ErrEmptySlug is returned when a facility's identifying fields normalize to nothing
var ErrEmptySlug = apperrors.NewValidationError("facility slug must not be empty")

// Validate checks the facility against the reference data. Region and
// RegionAbbr are completed from the matching region when one of them is
// missing. The slug always follows from name, city and region abbreviation;
// a supplied slug is kept only when it is that base or a numbered variant
// of it.
func (f *Facility) Validate(regions []Region, types []FacilityType) error {
	f.Name = strings.TrimSpace(f.Name)
	f.City = strings.TrimSpace(f.City)

	if f.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if f.City == "" {
		return apperrors.NewValidationError("city is required")
	}

	region, ok := matchRegion(regions, f.Region, f.RegionAbbr)
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("unknown region %q", firstNonEmpty(f.Region, f.RegionAbbr)))
	}
	f.Region = region.Name
	f.RegionAbbr = region.Abbr

	if f.TypeSlug == "" && f.Type != "" {
		f.TypeSlug = slug.Type(f.Type)
	}
	ft, ok := FindFacilityType(types, f.TypeSlug)
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("unknown facility type %q", f.TypeSlug))
	}
	if f.Type == "" {
		f.Type = ft.Name
	}

	base := f.DeriveSlug()
	if base == "" {
		return ErrEmptySlug
	}
	switch {
	case f.Slug == "":
		f.Slug = base
	case !slug.HasBase(f.Slug, base):
		return apperrors.NewValidationError(fmt.Sprintf("slug %q does not match %q", f.Slug, base))
	}

	if f.Status == "" {
		f.Status = FacilityStatusPending
	}
	if !f.Status.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid status %q", f.Status))
	}
	if f.Rating != nil && (*f.Rating < 0 || *f.Rating > 5) {
		return apperrors.NewValidationError("rating must be between 0 and 5")
	}
	return nil
}

func matchRegion(regions []Region, name, abbr string) (Region, bool) {
	for _, r := range regions {
		nameOK := name == "" || strings.EqualFold(r.Name, name)
		abbrOK := abbr == "" || strings.EqualFold(r.Abbr, abbr)
		if (name != "" || abbr != "") && nameOK && abbrOK {
			return r, true
		}
	}
	return Region{}, false
}
