package loaders

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders batches facility lookups made while serving one request
type Loaders struct {
	FacilityLoader *dataloader.Loader[string, *entities.Facility]
}

// Ensure Loaders can resolve claim facilities
var _ services.FacilityResolver = (*Loaders)(nil)

// NewLoaders creates request scoped loaders backed by facilityRepo
func NewLoaders(facilityRepo repositories.FacilityRepository) *Loaders {
	return &Loaders{
		FacilityLoader: dataloader.NewBatchedLoader(
			func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Facility] {
				results := make([]*dataloader.Result[*entities.Facility], len(keys))
				facilities, err := facilityRepo.GetByIDs(ctx, keys)

				facilityMap := make(map[string]*entities.Facility, len(facilities))
				if err == nil {
					for _, f := range facilities {
						facilityMap[f.ID] = f
					}
				}

				for i, key := range keys {
					switch f, ok := facilityMap[key]; {
					case err != nil:
						results[i] = &dataloader.Result[*entities.Facility]{Error: err}
					case ok:
						results[i] = &dataloader.Result[*entities.Facility]{Data: f}
					default:
						results[i] = &dataloader.Result[*entities.Facility]{Error: apperrors.NewNotFoundError("facility " + key + " not found")}
					}
				}
				return results
			},
			dataloader.WithWait[string, *entities.Facility](2*time.Millisecond),
		),
	}
}

// ResolveFacilities loads ids through the batched loader. Ids that do not
// resolve to a facility are left out of the map.
func (l *Loaders) ResolveFacilities(ctx context.Context, ids []string) (map[string]*entities.Facility, error) {
	out := make(map[string]*entities.Facility, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	facilities, errs := l.FacilityLoader.LoadMany(ctx, ids)()
	for i, id := range ids {
		if i < len(errs) && errs[i] != nil {
			if apperrors.IsNotFound(errs[i]) {
				continue
			}
			return nil, errs[i]
		}
		if i < len(facilities) && facilities[i] != nil {
			out[id] = facilities[i]
		}
	}
	return out, nil
}

// For returns the loaders attached to ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// Middleware attaches fresh loaders to every request so batched results
// never outlive the request that loaded them
func Middleware(facilityRepo repositories.FacilityRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(facilityRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
