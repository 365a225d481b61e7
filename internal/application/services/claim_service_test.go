package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/mocks"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

func TestClaimService_Create(t *testing.T) {
	repo := new(mocks.MockClaimRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Claim")).Return(nil)
	svc := services.NewClaimService(repo, newDirectoryStore())

	claim := &entities.Claim{
		FacilitySlug: "jansen-elektra-utrecht-ut",
		ContactEmail: " piet@jansen-elektra.nl ",
		JobTitle:     "Eigenaar",
		Status:       entities.ClaimStatusApproved,
		AdminNotes:   "self approved",
	}
	require.NoError(t, svc.Create(context.Background(), claim))

	assert.NotEmpty(t, claim.ID)
	assert.Equal(t, "01", claim.FacilityID)
	assert.Equal(t, "Jansen Elektra", claim.FacilityName)
	assert.Equal(t, "piet@jansen-elektra.nl", claim.ContactEmail)
	assert.Equal(t, entities.ClaimStatusPending, claim.Status)
	assert.Empty(t, claim.AdminNotes)
	repo.AssertExpectations(t)
}

func TestClaimService_Create_UnknownFacility(t *testing.T) {
	repo := new(mocks.MockClaimRepository)
	svc := services.NewClaimService(repo, newDirectoryStore())

	err := svc.Create(context.Background(), &entities.Claim{FacilityID: "missing", ContactEmail: "a@b.nl"})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	err = svc.Create(context.Background(), &entities.Claim{ContactEmail: "a@b.nl"})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	err = svc.Create(context.Background(), &entities.Claim{FacilityID: "01"})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaimService_UpdateStatus_RejectRequiresReason(t *testing.T) {
	repo := new(mocks.MockClaimRepository)
	svc := services.NewClaimService(repo, newDirectoryStore())

	_, err := svc.UpdateStatus(context.Background(), "c1", entities.StatusChange{Status: "rejected"})
	assert.ErrorIs(t, err, entities.ErrRejectionReasonRequired)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimService_UpdateStatus_Reject(t *testing.T) {
	repo := new(mocks.MockClaimRepository)
	change := entities.StatusChange{Status: "rejected", RejectionReason: "no proof of ownership"}
	repo.On("UpdateStatus", mock.Anything, "c1", change).Return(nil)
	now := time.Now()
	repo.On("GetByID", mock.Anything, "c1").Return(&entities.Claim{
		ID:              "c1",
		Status:          entities.ClaimStatusRejected,
		RejectionReason: "no proof of ownership",
		ReviewedAt:      &now,
	}, nil)
	svc := services.NewClaimService(repo, newDirectoryStore())

	claim, err := svc.UpdateStatus(context.Background(), "c1", entities.StatusChange{Status: " REJECTED ", RejectionReason: "no proof of ownership "})
	require.NoError(t, err)
	assert.Equal(t, entities.ClaimStatusRejected, claim.Status)
	assert.NotEmpty(t, claim.RejectionReason)
	repo.AssertExpectations(t)
}

type countingResolver struct {
	calls int
	ids   []string
	inner services.FacilityResolver
}

func (r *countingResolver) ResolveFacilities(ctx context.Context, ids []string) (map[string]*entities.Facility, error) {
	r.calls++
	r.ids = ids
	return r.inner.ResolveFacilities(ctx, ids)
}

type storeResolver struct{ store *mocks.FacilityStore }

func (r storeResolver) ResolveFacilities(ctx context.Context, ids []string) (map[string]*entities.Facility, error) {
	facilities, err := r.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entities.Facility, len(facilities))
	for _, f := range facilities {
		out[f.ID] = f
	}
	return out, nil
}

func TestClaimService_List(t *testing.T) {
	store := newDirectoryStore()
	repo := new(mocks.MockClaimRepository)
	repo.On("List", mock.Anything, entities.ClaimStatusPending).Return([]*entities.Claim{
		{ID: "c3", FacilityID: "01", Status: entities.ClaimStatusPending},
		{ID: "c2", FacilityID: "deleted", Status: entities.ClaimStatusPending},
		{ID: "c1", FacilityID: "01", Status: entities.ClaimStatusPending},
	}, nil)
	svc := services.NewClaimService(repo, store)

	resolver := &countingResolver{inner: storeResolver{store: store}}
	claims, err := svc.List(context.Background(), entities.ClaimStatusPending, resolver)
	require.NoError(t, err)

	require.Len(t, claims, 3)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, []string{"01", "deleted"}, resolver.ids)
	assert.Equal(t, "c3", claims[0].ID)
	require.NotNil(t, claims[0].Facility)
	assert.Equal(t, "jansen-elektra-utrecht-ut", claims[0].Facility.Slug)
	assert.Nil(t, claims[1].Facility)
}

func TestClaimService_List_DefaultResolver(t *testing.T) {
	repo := new(mocks.MockClaimRepository)
	repo.On("List", mock.Anything, entities.ClaimStatus("")).Return([]*entities.Claim{{ID: "c1", FacilityID: "06"}}, nil)
	svc := services.NewClaimService(repo, newDirectoryStore())

	claims, err := svc.List(context.Background(), "", nil)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	require.NotNil(t, claims[0].Facility)
	assert.Equal(t, "Amstel Stroom", claims[0].Facility.Name)
}

func TestClaimService_List_InvalidStatus(t *testing.T) {
	svc := services.NewClaimService(new(mocks.MockClaimRepository), newDirectoryStore())

	_, err := svc.List(context.Background(), "archived", nil)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}
