package reference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

func TestFileAdapter_EmbeddedDefaults(t *testing.T) {
	a := NewFileAdapter("")

	regions, err := a.Regions(context.Background())
	require.NoError(t, err)
	assert.Len(t, regions, 12)

	utrecht, ok := entities.FindRegion(regions, "UT")
	require.True(t, ok)
	assert.Equal(t, "Utrecht", utrecht.Name)
	assert.Equal(t, "utrecht", utrecht.Slug)

	nb, ok := entities.FindRegion(regions, "noord-brabant")
	require.True(t, ok)
	assert.Equal(t, "NB", nb.Abbr)

	types, err := a.FacilityTypes(context.Background())
	require.NoError(t, err)
	_, ok = entities.FindFacilityType(types, "laadpaal-installatie")
	assert.True(t, ok)
}

func TestFileAdapter_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, regionsFile), []byte(`{
		"states": [
			{"name": "Texas", "abbr": "tx"},
			{"name": "New York", "abbr": "NY", "slug": "new-york"}
		]
	}`), 0o644))

	a := NewFileAdapter(dir)

	regions, err := a.Regions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "TX", regions[0].Abbr)
	assert.Equal(t, "texas", regions[0].Slug)

	// types file absent from dir falls back to the defaults
	types, err := a.FacilityTypes(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, types)
}

func TestFileAdapter_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, typesFile), []byte(`{"types": [`), 0o644))

	_, err := NewFileAdapter(dir).FacilityTypes(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}

type countingSource struct {
	calls   atomic.Int32
	delay   time.Duration
	fail    atomic.Bool
	regions []entities.Region
}

func (s *countingSource) Regions(ctx context.Context) ([]entities.Region, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	if s.fail.Load() {
		return nil, apperrors.NewUnavailableError("regions unavailable", errors.New("disk error"))
	}
	return s.regions, nil
}

func (s *countingSource) FacilityTypes(ctx context.Context) ([]entities.FacilityType, error) {
	s.calls.Add(1)
	return []entities.FacilityType{{Slug: "storingsdienst", Name: "Storingsdienst"}}, nil
}

func TestCache_PopulatesOnceUnderConcurrency(t *testing.T) {
	src := &countingSource{delay: 20 * time.Millisecond, regions: []entities.Region{{Name: "Utrecht", Abbr: "UT", Slug: "utrecht"}}}
	c := NewCache(src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			regions, err := c.Regions(context.Background())
			assert.NoError(t, err)
			assert.Len(t, regions, 1)
		}()
	}
	wg.Wait()

	_, err := c.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestCache_FailureIsNotCached(t *testing.T) {
	src := &countingSource{regions: []entities.Region{{Name: "Utrecht", Abbr: "UT", Slug: "utrecht"}}}
	src.fail.Store(true)
	c := NewCache(src)

	_, err := c.Regions(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))

	src.fail.Store(false)
	regions, err := c.Regions(context.Background())
	require.NoError(t, err)
	assert.Len(t, regions, 1)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCache_Invalidate(t *testing.T) {
	src := &countingSource{regions: []entities.Region{{Name: "Utrecht", Abbr: "UT", Slug: "utrecht"}}}
	c := NewCache(src)

	_, err := c.Regions(context.Background())
	require.NoError(t, err)
	_, err = c.FacilityTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())

	c.Invalidate()

	_, err = c.Regions(context.Background())
	require.NoError(t, err)
	_, err = c.FacilityTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), src.calls.Load())
}

func TestCache_ReturnsCopies(t *testing.T) {
	src := &countingSource{regions: []entities.Region{{Name: "Utrecht", Abbr: "UT", Slug: "utrecht"}}}
	c := NewCache(src)

	first, err := c.Regions(context.Background())
	require.NoError(t, err)
	first[0].Name = "changed"

	second, err := c.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Utrecht", second[0].Name)
}
