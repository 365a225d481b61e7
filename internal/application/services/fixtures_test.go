package services_test

import (
	"time"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/mocks"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/slug"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

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

// directoryListings is an eight entry directory spread over three provinces
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
	facilities[0].Rating, facilities[0].ReviewCount = ptrFloat(4.8), ptrInt(120)
	facilities[0].Coordinates = &entities.Coordinates{Latitude: 52.0894, Longitude: 5.1101}
	facilities[2].Rating, facilities[2].ReviewCount = ptrFloat(4.1), ptrInt(8)
	facilities[3].Coordinates = &entities.Coordinates{Latitude: 52.0907, Longitude: 5.2332}
	facilities[3].UpdatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	facilities[5].Coordinates = &entities.Coordinates{Latitude: 52.3791, Longitude: 4.9003}
	return facilities
}

func newDirectoryStore() *mocks.FacilityStore {
	return mocks.NewFacilityStore(directoryListings()...)
}
