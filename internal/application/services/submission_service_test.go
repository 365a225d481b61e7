package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/mocks"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

func submission() *entities.Facility {
	return &entities.Facility{
		Name:       "Jansen Elektra",
		City:       "Utrecht",
		RegionAbbr: "ut",
		TypeSlug:   "elektra-installatie",
		Phone:      "030-7654321",
	}
}

func TestSubmissionService_Submit(t *testing.T) {
	store := mocks.NewFacilityStore()
	bus := &mocks.RecordingEventBus{}
	svc := services.NewSubmissionService(store, mocks.DutchReference(), bus)

	f := submission()
	f.Status = entities.FacilityStatusActive
	f.Rating = ptrFloat(5)
	require.NoError(t, svc.Submit(context.Background(), f))

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "jansen-elektra-utrecht-ut", f.Slug)
	assert.Equal(t, entities.FacilityStatusPending, f.Status)
	assert.Equal(t, "Utrecht", f.Region)
	assert.Equal(t, "UT", f.RegionAbbr)
	assert.Nil(t, f.Rating)
	assert.Equal(t, "submission", f.Source)

	require.Len(t, bus.Published(), 1)
	assert.Equal(t, entities.FacilityEventTypeSubmitted, bus.Published()[0].EventType)
}

func TestSubmissionService_Submit_DisambiguatesSlug(t *testing.T) {
	store := mocks.NewFacilityStore()
	svc := services.NewSubmissionService(store, mocks.DutchReference(), nil)
	ctx := context.Background()

	first, second, third := submission(), submission(), submission()
	require.NoError(t, svc.Submit(ctx, first))
	require.NoError(t, svc.Submit(ctx, second))
	require.NoError(t, svc.Submit(ctx, third))

	assert.Equal(t, "jansen-elektra-utrecht-ut", first.Slug)
	assert.Equal(t, "jansen-elektra-utrecht-ut-2", second.Slug)
	assert.Equal(t, "jansen-elektra-utrecht-ut-3", third.Slug)
	assert.Equal(t, 3, store.Len())
}

func TestSubmissionService_Submit_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *entities.Facility)
	}{
		{"unknown region", func(f *entities.Facility) { f.RegionAbbr = "XX" }},
		{"unknown type", func(f *entities.Facility) { f.TypeSlug = "loodgieter" }},
		{"missing name", func(f *entities.Facility) { f.Name = "  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewFacilityStore()
			svc := services.NewSubmissionService(store, mocks.DutchReference(), nil)

			f := submission()
			tt.mutate(f)
			err := svc.Submit(context.Background(), f)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
			assert.Zero(t, store.Len())
		})
	}
}
