package reference

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/slug"
)

const (
	regionsFile = "regions.json"
	typesFile   = "facility-types.json"
)

//go:embed defaults/*.json
var defaults embed.FS

// FileAdapter reads regions and facility types from JSON files. Files that
// are missing from dir are served from the embedded defaults.
type FileAdapter struct {
	dir string
}

// Ensure FileAdapter implements ReferenceRepository
var _ repositories.ReferenceRepository = (*FileAdapter)(nil)

// NewFileAdapter creates a reference adapter rooted at dir. An empty dir
// serves only the embedded defaults.
func NewFileAdapter(dir string) *FileAdapter {
	return &FileAdapter{dir: dir}
}

// regionsDocument accepts the region list under any of the keys used by
// the US and NL data sets
type regionsDocument struct {
	Regions   []entities.Region `json:"regions"`
	States    []entities.Region `json:"states"`
	Provinces []entities.Region `json:"provinces"`
}

type typesDocument struct {
	Types []entities.FacilityType `json:"types"`
}

// Regions loads the region set
func (a *FileAdapter) Regions(ctx context.Context) ([]entities.Region, error) {
	data, err := a.read(ctx, regionsFile)
	if err != nil {
		return nil, err
	}

	var doc regionsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewUnavailableError("malformed region data", err)
	}

	regions := doc.Regions
	switch {
	case len(regions) > 0:
	case len(doc.States) > 0:
		regions = doc.States
	default:
		regions = doc.Provinces
	}

	for i := range regions {
		r := &regions[i]
		r.Name = strings.TrimSpace(r.Name)
		r.Abbr = strings.ToUpper(strings.TrimSpace(r.Abbr))
		if r.Slug == "" {
			r.Slug = slug.Region(r.Name)
		}
		if r.Name == "" || r.Slug == "" {
			return nil, apperrors.NewUnavailableError("malformed region data", fmt.Errorf("region %d has no name", i))
		}
	}
	return regions, nil
}

// FacilityTypes loads the facility type set
func (a *FileAdapter) FacilityTypes(ctx context.Context) ([]entities.FacilityType, error) {
	data, err := a.read(ctx, typesFile)
	if err != nil {
		return nil, err
	}

	var doc typesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewUnavailableError("malformed facility type data", err)
	}

	for i := range doc.Types {
		t := &doc.Types[i]
		if t.Slug == "" {
			t.Slug = slug.Type(t.Name)
		}
		if t.Slug == "" {
			return nil, apperrors.NewUnavailableError("malformed facility type data", fmt.Errorf("type %d has no name", i))
		}
		if t.Name == "" {
			t.Name = t.Slug
		}
	}
	return doc.Types, nil
}

func (a *FileAdapter) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("reference data read cancelled", err)
	}

	if a.dir != "" {
		data, err := os.ReadFile(filepath.Join(a.dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewUnavailableError(fmt.Sprintf("failed to read %s", name), err)
		}
	}

	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		return nil, apperrors.NewUnavailableError(fmt.Sprintf("no reference data for %s", name), err)
	}
	return data, nil
}
