package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
)

// MockFacilitySearchRepository mocks the suggestion index
type MockFacilitySearchRepository struct {
	mock.Mock
}

func (m *MockFacilitySearchRepository) Suggest(ctx context.Context, query string, limit int) ([]entities.FacilitySummary, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FacilitySummary), args.Error(1)
}

func (m *MockFacilitySearchRepository) Index(ctx context.Context, facility *entities.Facility) error {
	args := m.Called(ctx, facility)
	return args.Error(0)
}

func (m *MockFacilitySearchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockClaimRepository mocks ClaimRepository
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, claim *entities.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) GetByID(ctx context.Context, id string) (*entities.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Claim), args.Error(1)
}

func (m *MockClaimRepository) List(ctx context.Context, status entities.ClaimStatus) ([]*entities.Claim, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Claim), args.Error(1)
}

func (m *MockClaimRepository) UpdateStatus(ctx context.Context, id string, change entities.StatusChange) error {
	args := m.Called(ctx, id, change)
	return args.Error(0)
}

func (m *MockClaimRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFeedbackRepository mocks FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *entities.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) List(ctx context.Context, limit int) ([]*entities.Feedback, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Feedback), args.Error(1)
}

// StaticReference serves fixed reference sets
type StaticReference struct {
	RegionSet []entities.Region
	TypeSet   []entities.FacilityType
	Err       error
}

func (s *StaticReference) Regions(context.Context) ([]entities.Region, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]entities.Region(nil), s.RegionSet...), nil
}

func (s *StaticReference) FacilityTypes(context.Context) ([]entities.FacilityType, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]entities.FacilityType(nil), s.TypeSet...), nil
}

// DutchReference returns a small reference set used across tests
func DutchReference() *StaticReference {
	return &StaticReference{
		RegionSet: []entities.Region{
			{Name: "Utrecht", Abbr: "UT", Slug: "utrecht", Capital: "Utrecht"},
			{Name: "Noord-Holland", Abbr: "NH", Slug: "noord-holland", Capital: "Haarlem"},
			{Name: "Zeeland", Abbr: "ZE", Slug: "zeeland", Capital: "Middelburg"},
		},
		TypeSet: []entities.FacilityType{
			{Slug: "elektra-installatie", Name: "Elektra installatie"},
			{Slug: "storingsdienst", Name: "Storingsdienst"},
			{Slug: "laadpaal-installatie", Name: "Laadpaal installatie"},
		},
	}
}
