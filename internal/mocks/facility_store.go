// Package mocks provides test doubles for the domain ports.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

// FacilityStore is an in-memory FacilityRepository. It copies facilities
// on the way in and out so callers cannot mutate stored state.
type FacilityStore struct {
	mu         sync.RWMutex
	facilities map[string]*entities.Facility
	err        error
}

// Ensure FacilityStore implements FacilityRepository
var _ repositories.FacilityRepository = (*FacilityStore)(nil)

// NewFacilityStore creates a store seeded with facilities
func NewFacilityStore(facilities ...*entities.Facility) *FacilityStore {
	s := &FacilityStore{facilities: make(map[string]*entities.Facility)}
	for _, f := range facilities {
		s.facilities[f.ID] = clone(f)
	}
	return s
}

// FailWith makes every subsequent call return err; nil restores normal
// behaviour
func (s *FacilityStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Len returns the number of stored facilities
func (s *FacilityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facilities)
}

func clone(f *entities.Facility) *entities.Facility {
	cp := *f
	return &cp
}

func (s *FacilityStore) Create(_ context.Context, facility *entities.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, f := range s.facilities {
		if f.Slug == facility.Slug {
			return apperrors.NewConflictError(fmt.Sprintf("facility with slug %s already exists", facility.Slug))
		}
	}
	now := time.Now().UTC()
	if facility.CreatedAt.IsZero() {
		facility.CreatedAt = now
	}
	facility.UpdatedAt = now
	s.facilities[facility.ID] = clone(facility)
	return nil
}

func (s *FacilityStore) GetByID(_ context.Context, id string) (*entities.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	f, ok := s.facilities[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	return clone(f), nil
}

func (s *FacilityStore) GetBySlug(_ context.Context, slug string) (*entities.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, f := range s.facilities {
		if f.Slug == slug {
			return clone(f), nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with slug %s not found", slug))
}

func (s *FacilityStore) GetByIDs(_ context.Context, ids []string) ([]*entities.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*entities.Facility, 0, len(ids))
	for _, id := range ids {
		if f, ok := s.facilities[id]; ok {
			out = append(out, clone(f))
		}
	}
	return out, nil
}

func (s *FacilityStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := s.GetBySlug(ctx, slug)
	if apperrors.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *FacilityStore) Update(_ context.Context, facility *entities.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.facilities[facility.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", facility.ID))
	}
	facility.UpdatedAt = time.Now().UTC()
	s.facilities[facility.ID] = clone(facility)
	return nil
}

func (s *FacilityStore) UpdateStatus(_ context.Context, id string, status entities.FacilityStatus, rejectionReason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	f, ok := s.facilities[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	f.Status = status
	f.RejectionReason = rejectionReason
	f.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *FacilityStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.facilities[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	delete(s.facilities, id)
	return nil
}

func (s *FacilityStore) List(_ context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}

	out := make([]*entities.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		if !matchesFilter(f, filter) {
			continue
		}
		out = append(out, clone(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []*entities.Facility{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesFilter(f *entities.Facility, filter repositories.FacilityFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			if f.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Region != "" && !f.InRegion(filter.Region) {
		return false
	}
	if filter.City != "" && f.City != filter.City {
		return false
	}
	if filter.TypeSlug != "" && f.TypeSlug != filter.TypeSlug {
		return false
	}
	return true
}
