package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/mocks"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

func summarySlugs(summaries []entities.FacilitySummary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.Slug)
	}
	return out
}

func TestSearchService_Search_CombinedFilters(t *testing.T) {
	svc := services.NewSearchService(newDirectory(newDirectoryStore()), nil)

	results, err := svc.Search(context.Background(), "utrecht", "elektra-installatie", "UT")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"jansen-elektra-utrecht-ut",
		"de-vries-installatie-amersfoort-ut",
		"utrechtse-groepenkast-nieuwegein-ut",
	}, summarySlugs(results))
}

func TestSearchService_Search_TypeAndRegion(t *testing.T) {
	store := mocks.NewFacilityStore(
		listing("01", "Bakker Laadpalen", "Zeist", "Utrecht", "UT", "laadpaal-installatie"),
		listing("02", "Laadpunt Utrecht", "Utrecht", "Utrecht", "UT", "laadpaal-installatie"),
		listing("03", "Stroomweg", "Houten", "Utrecht", "UT", "laadpaal-installatie"),
		listing("04", "Jansen Elektra", "Utrecht", "Utrecht", "UT", "elektra-installatie"),
		listing("05", "Amstel Laden", "Amsterdam", "Noord-Holland", "NH", "laadpaal-installatie"),
		listing("06", "Haarlem Laadpalen", "Haarlem", "Noord-Holland", "NH", "laadpaal-installatie"),
		listing("07", "Zeeuws Laden", "Middelburg", "Zeeland", "ZE", "laadpaal-installatie"),
		listing("08", "Brabant Laadservice", "Tilburg", "Noord-Brabant", "NB", "laadpaal-installatie"),
		listing("09", "Groninger Stekker", "Groningen", "Groningen", "GR", "laadpaal-installatie"),
	)
	svc := services.NewSearchService(newDirectory(store), nil)

	results, err := svc.Search(context.Background(), "", "laadpaal-installatie", "Utrecht")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"bakker-laadpalen-zeist-ut",
		"laadpunt-utrecht-utrecht-ut",
		"stroomweg-houten-ut",
	}, summarySlugs(results))
}

func TestSearchService_Search_EmptyFiltersBrowseEverything(t *testing.T) {
	svc := services.NewSearchService(newDirectory(newDirectoryStore()), nil)

	results, err := svc.Search(context.Background(), "", "all", "all")
	require.NoError(t, err)
	assert.Len(t, results, 8)
	assert.Equal(t, "jansen-elektra-utrecht-ut", results[0].Slug)
}

func TestSearchService_Search_OnlyActive(t *testing.T) {
	store := newDirectoryStore()
	require.NoError(t, store.UpdateStatus(context.Background(), "01", entities.FacilityStatusRejected, "spam"))
	svc := services.NewSearchService(newDirectory(store), nil)

	results, err := svc.Search(context.Background(), "jansen", "", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_Search_UnknownTypeIsEmpty(t *testing.T) {
	svc := services.NewSearchService(newDirectory(newDirectoryStore()), nil)

	results, err := svc.Search(context.Background(), "", "loodgieter", "")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchService_Search_StoreFailure(t *testing.T) {
	store := newDirectoryStore()
	store.FailWith(apperrors.NewUnavailableError("failed to list facilities", errors.New("timeout")))
	svc := services.NewSearchService(newDirectory(store), nil)

	results, err := svc.Search(context.Background(), "utrecht", "", "")
	assert.Nil(t, results)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestSearchService_Suggest_UsesIndex(t *testing.T) {
	index := new(mocks.MockFacilitySearchRepository)
	want := []entities.FacilitySummary{{Name: "Jansen Elektra", Slug: "jansen-elektra-utrecht-ut"}}
	index.On("Suggest", mock.Anything, "jan", 5).Return(want, nil)

	svc := services.NewSearchService(newDirectory(newDirectoryStore()), index)

	got, err := svc.Suggest(context.Background(), " jan ", 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	index.AssertExpectations(t)
}

func TestSearchService_Suggest_FallsBackToDirectory(t *testing.T) {
	index := new(mocks.MockFacilitySearchRepository)
	index.On("Suggest", mock.Anything, "utrecht", 2).Return(nil, errors.New("typesense down"))

	svc := services.NewSearchService(newDirectory(newDirectoryStore()), index)

	got, err := svc.Suggest(context.Background(), "utrecht", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "jansen-elektra-utrecht-ut", got[0].Slug)
}

func TestSearchService_Suggest_EmptyQuery(t *testing.T) {
	index := new(mocks.MockFacilitySearchRepository)
	svc := services.NewSearchService(newDirectory(newDirectoryStore()), index)

	got, err := svc.Suggest(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	index.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything, mock.Anything)
}
