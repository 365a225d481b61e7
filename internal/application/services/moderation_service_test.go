package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/mocks"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

func TestModerationService_RejectRequiresReason(t *testing.T) {
	store := newDirectoryStore()
	bus := &mocks.RecordingEventBus{}
	svc := services.NewModerationService(store, nil, bus)

	_, err := svc.UpdateFacilityStatus(context.Background(), "01", entities.StatusChange{Status: "rejected"})
	assert.ErrorIs(t, err, entities.ErrRejectionReasonRequired)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	f, err := store.GetByID(context.Background(), "01")
	require.NoError(t, err)
	assert.Equal(t, entities.FacilityStatusActive, f.Status, "nothing was written")
	assert.Empty(t, bus.Published())
}

func TestModerationService_Reject(t *testing.T) {
	store := newDirectoryStore()
	bus := &mocks.RecordingEventBus{}
	index := new(mocks.MockFacilitySearchRepository)
	index.On("Index", mock.Anything, mock.AnythingOfType("*entities.Facility")).Return(nil)
	svc := services.NewModerationService(store, index, bus)

	f, err := svc.UpdateFacilityStatus(context.Background(), "01", entities.StatusChange{
		Status:          "Rejected",
		RejectionReason: "duplicate listing",
		ReviewedBy:      "admin@example.nl",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.FacilityStatusRejected, f.Status)
	assert.Equal(t, "duplicate listing", f.RejectionReason)

	events := bus.Published()
	require.Len(t, events, 1)
	assert.Equal(t, entities.FacilityEventTypeRejected, events[0].EventType)
	assert.Equal(t, "jansen-elektra-utrecht-ut", events[0].FacilitySlug)
	index.AssertExpectations(t)
}

func TestModerationService_ApproveClearsReason(t *testing.T) {
	store := newDirectoryStore()
	require.NoError(t, store.UpdateStatus(context.Background(), "02", entities.FacilityStatusRejected, "incomplete"))
	svc := services.NewModerationService(store, nil, nil)

	f, err := svc.UpdateFacilityStatus(context.Background(), "02", entities.StatusChange{Status: "active", RejectionReason: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, entities.FacilityStatusActive, f.Status)
	assert.Empty(t, f.RejectionReason)
}

func TestModerationService_LastWriteWins(t *testing.T) {
	store := newDirectoryStore()
	svc := services.NewModerationService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.UpdateFacilityStatus(ctx, "03", entities.StatusChange{Status: "rejected", RejectionReason: "closed"})
	require.NoError(t, err)
	_, err = svc.UpdateFacilityStatus(ctx, "03", entities.StatusChange{Status: "active"})
	require.NoError(t, err)

	f, err := store.GetByID(ctx, "03")
	require.NoError(t, err)
	assert.Equal(t, entities.FacilityStatusActive, f.Status)
}

func TestModerationService_UnknownFacility(t *testing.T) {
	svc := services.NewModerationService(newDirectoryStore(), nil, nil)

	_, err := svc.UpdateFacilityStatus(context.Background(), "nope", entities.StatusChange{Status: "active"})
	assert.True(t, apperrors.IsNotFound(err))

	err = svc.DeleteFacility(context.Background(), "nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestModerationService_DeleteFacility(t *testing.T) {
	store := newDirectoryStore()
	bus := &mocks.RecordingEventBus{}
	index := new(mocks.MockFacilitySearchRepository)
	index.On("Delete", mock.Anything, "05").Return(nil)
	svc := services.NewModerationService(store, index, bus)

	require.NoError(t, svc.DeleteFacility(context.Background(), "05"))

	_, err := store.GetByID(context.Background(), "05")
	assert.True(t, apperrors.IsNotFound(err))
	require.Len(t, bus.Published(), 1)
	assert.Equal(t, entities.FacilityEventTypeDeleted, bus.Published()[0].EventType)
	index.AssertExpectations(t)
}

func TestModerationService_ListFacilities(t *testing.T) {
	store := newDirectoryStore()
	require.NoError(t, store.UpdateStatus(context.Background(), "04", entities.FacilityStatusPending, ""))
	svc := services.NewModerationService(store, nil, nil)

	pending, err := svc.ListFacilities(context.Background(), entities.FacilityStatusPending)
	require.NoError(t, err)
	assert.Equal(t, []string{"04"}, facilityIDs(pending))

	all, err := svc.ListFacilities(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 8)

	_, err = svc.ListFacilities(context.Background(), "archived")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}
