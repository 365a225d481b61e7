package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/postgres"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/observability"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

const facilitiesTable = "facilities"

// uniqueViolation is the Postgres error code for a unique constraint failure
const uniqueViolation = "23505"

var facilityColumns = []interface{}{
	"id", "name", "slug", "type", "type_slug", "address", "city", "county",
	"region", "region_abbr", "postal_code", "country", "latitude", "longitude",
	"phone", "email", "website", "description", "amenities", "year_established",
	"opening_hours", "has_emergency_service", "rating", "review_count", "photo",
	"photos", "status", "rejection_reason", "source", "discovered_at",
	"created_at", "updated_at",
}

// facilityRow mirrors the facilities table; nullable columns use sql.Null*
type facilityRow struct {
	ID                  string          `db:"id"`
	Name                string          `db:"name"`
	Slug                string          `db:"slug"`
	Type                string          `db:"type"`
	TypeSlug            string          `db:"type_slug"`
	Address             sql.NullString  `db:"address"`
	City                string          `db:"city"`
	County              sql.NullString  `db:"county"`
	Region              string          `db:"region"`
	RegionAbbr          string          `db:"region_abbr"`
	PostalCode          sql.NullString  `db:"postal_code"`
	Country             string          `db:"country"`
	Latitude            sql.NullFloat64 `db:"latitude"`
	Longitude           sql.NullFloat64 `db:"longitude"`
	Phone               sql.NullString  `db:"phone"`
	Email               sql.NullString  `db:"email"`
	Website             sql.NullString  `db:"website"`
	Description         sql.NullString  `db:"description"`
	Amenities           pq.StringArray  `db:"amenities"`
	YearEstablished     sql.NullString  `db:"year_established"`
	OpeningHours        sql.NullString  `db:"opening_hours"`
	HasEmergencyService bool            `db:"has_emergency_service"`
	Rating              sql.NullFloat64 `db:"rating"`
	ReviewCount         sql.NullInt64   `db:"review_count"`
	Photo               sql.NullString  `db:"photo"`
	Photos              pq.StringArray  `db:"photos"`
	Status              string          `db:"status"`
	RejectionReason     sql.NullString  `db:"rejection_reason"`
	Source              sql.NullString  `db:"source"`
	DiscoveredAt        sql.NullTime    `db:"discovered_at"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (r *facilityRow) toEntity() *entities.Facility {
	f := &entities.Facility{
		ID:                  r.ID,
		Name:                r.Name,
		Slug:                r.Slug,
		Type:                r.Type,
		TypeSlug:            r.TypeSlug,
		Address:             r.Address.String,
		City:                r.City,
		County:              r.County.String,
		Region:              r.Region,
		RegionAbbr:          r.RegionAbbr,
		PostalCode:          r.PostalCode.String,
		Country:             r.Country,
		Phone:               r.Phone.String,
		Email:               r.Email.String,
		Website:             r.Website.String,
		Description:         r.Description.String,
		Amenities:           []string(r.Amenities),
		YearEstablished:     r.YearEstablished.String,
		OpeningHours:        r.OpeningHours.String,
		HasEmergencyService: r.HasEmergencyService,
		Photo:               r.Photo.String,
		Photos:              []string(r.Photos),
		Status:              entities.FacilityStatus(r.Status),
		RejectionReason:     r.RejectionReason.String,
		Source:              r.Source.String,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.Latitude.Valid && r.Longitude.Valid {
		f.Coordinates = &entities.Coordinates{Latitude: r.Latitude.Float64, Longitude: r.Longitude.Float64}
	}
	if r.Rating.Valid {
		v := r.Rating.Float64
		f.Rating = &v
	}
	if r.ReviewCount.Valid {
		v := int(r.ReviewCount.Int64)
		f.ReviewCount = &v
	}
	if r.DiscoveredAt.Valid {
		t := r.DiscoveredAt.Time
		f.DiscoveredAt = &t
	}
	return f
}

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// Ensure FacilityAdapter implements FacilityRepository
var _ repositories.FacilityRepository = (*FacilityAdapter)(nil)

// NewFacilityAdapter creates a new facility adapter. metrics may be nil.
func NewFacilityAdapter(client *postgres.Client, metrics *observability.Metrics) *FacilityAdapter {
	return &FacilityAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

func facilityRecord(f *entities.Facility) goqu.Record {
	var lat, lng sql.NullFloat64
	if f.Coordinates != nil {
		lat = sql.NullFloat64{Float64: f.Coordinates.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: f.Coordinates.Longitude, Valid: true}
	}
	var rating sql.NullFloat64
	if f.Rating != nil {
		rating = sql.NullFloat64{Float64: *f.Rating, Valid: true}
	}
	var reviews sql.NullInt64
	if f.ReviewCount != nil {
		reviews = sql.NullInt64{Int64: int64(*f.ReviewCount), Valid: true}
	}
	var discovered sql.NullTime
	if f.DiscoveredAt != nil {
		discovered = sql.NullTime{Time: *f.DiscoveredAt, Valid: true}
	}

	return goqu.Record{
		"name":                  f.Name,
		"slug":                  f.Slug,
		"type":                  f.Type,
		"type_slug":             f.TypeSlug,
		"address":               nullString(f.Address),
		"city":                  f.City,
		"county":                nullString(f.County),
		"region":                f.Region,
		"region_abbr":           f.RegionAbbr,
		"postal_code":           nullString(f.PostalCode),
		"country":               f.Country,
		"latitude":              lat,
		"longitude":             lng,
		"phone":                 nullString(f.Phone),
		"email":                 nullString(f.Email),
		"website":               nullString(f.Website),
		"description":           nullString(f.Description),
		"amenities":             pq.StringArray(f.Amenities),
		"year_established":      nullString(f.YearEstablished),
		"opening_hours":         nullString(f.OpeningHours),
		"has_emergency_service": f.HasEmergencyService,
		"rating":                rating,
		"review_count":          reviews,
		"photo":                 nullString(f.Photo),
		"photos":                pq.StringArray(f.Photos),
		"status":                string(f.Status),
		"rejection_reason":      nullString(f.RejectionReason),
		"source":                nullString(f.Source),
		"discovered_at":         discovered,
		"updated_at":            f.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (a *FacilityAdapter) observe(ctx context.Context, operation string, started time.Time) {
	observability.RecordDBMetric(ctx, a.metrics, operation, time.Since(started))
}

// Create creates a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	defer a.observe(ctx, "facilities.create", time.Now())

	now := time.Now().UTC()
	if facility.CreatedAt.IsZero() {
		facility.CreatedAt = now
	}
	facility.UpdatedAt = now

	record := facilityRecord(facility)
	record["id"] = facility.ID
	record["created_at"] = facility.CreatedAt

	query, args, err := a.db.Insert(facilitiesTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.NewConflictError(fmt.Sprintf("facility with slug %s already exists", facility.Slug))
		}
		return apperrors.NewUnavailableError("failed to create facility", err)
	}

	return nil
}

// GetByID retrieves a facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	return a.getOne(ctx, "id", id)
}

// GetBySlug retrieves a facility by slug
func (a *FacilityAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Facility, error) {
	return a.getOne(ctx, "slug", slug)
}

func (a *FacilityAdapter) getOne(ctx context.Context, column, value string) (*entities.Facility, error) {
	defer a.observe(ctx, "facilities.get_by_"+column, time.Now())

	query, args, err := a.db.From(facilitiesTable).
		Prepared(true).
		Select(facilityColumns...).
		Where(goqu.Ex{column: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row facilityRow
	if err := a.client.DB().GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with %s %s not found", column, value))
		}
		return nil, apperrors.NewUnavailableError("failed to get facility", err)
	}

	return row.toEntity(), nil
}

// GetByIDs retrieves multiple facilities by their IDs. Unknown IDs are
// skipped; the result follows the order of ids.
func (a *FacilityAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Facility, error) {
	if len(ids) == 0 {
		return []*entities.Facility{}, nil
	}
	defer a.observe(ctx, "facilities.get_by_ids", time.Now())

	query, args, err := a.db.From(facilitiesTable).
		Prepared(true).
		Select(facilityColumns...).
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var rows []facilityRow
	if err := a.client.DB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewUnavailableError("failed to get facilities", err)
	}

	byID := make(map[string]*entities.Facility, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].toEntity()
	}

	facilities := make([]*entities.Facility, 0, len(rows))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			facilities = append(facilities, f)
		}
	}
	return facilities, nil
}

// SlugExists reports whether a facility already uses slug
func (a *FacilityAdapter) SlugExists(ctx context.Context, slug string) (bool, error) {
	query, args, err := a.db.From(facilitiesTable).
		Prepared(true).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"slug": slug}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().GetContext(ctx, &count, query, args...); err != nil {
		return false, apperrors.NewUnavailableError("failed to check slug", err)
	}
	return count > 0, nil
}

// Update updates a facility
func (a *FacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	defer a.observe(ctx, "facilities.update", time.Now())

	facility.UpdatedAt = time.Now().UTC()

	query, args, err := a.db.Update(facilitiesTable).
		Prepared(true).
		Set(facilityRecord(facility)).
		Where(goqu.Ex{"id": facility.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.execAffectingOne(ctx, query, args, facility.ID, "failed to update facility")
}

// UpdateStatus records a moderation decision
func (a *FacilityAdapter) UpdateStatus(ctx context.Context, id string, status entities.FacilityStatus, rejectionReason string) error {
	defer a.observe(ctx, "facilities.update_status", time.Now())

	query, args, err := a.db.Update(facilitiesTable).
		Prepared(true).
		Set(goqu.Record{
			"status":           string(status),
			"rejection_reason": nullString(rejectionReason),
			"updated_at":       time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.execAffectingOne(ctx, query, args, id, "failed to update facility status")
}

// Delete permanently removes a facility
func (a *FacilityAdapter) Delete(ctx context.Context, id string) error {
	defer a.observe(ctx, "facilities.delete", time.Now())

	query, args, err := a.db.Delete(facilitiesTable).
		Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	return a.execAffectingOne(ctx, query, args, id, "failed to delete facility")
}

func (a *FacilityAdapter) execAffectingOne(ctx context.Context, query string, args []interface{}, id, msg string) error {
	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewUnavailableError(msg, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewUnavailableError(msg, err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	return nil
}

// List retrieves facilities matching filter ordered by id
func (a *FacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	ctx, span := observability.StartSpan(ctx, "FacilityAdapter.List")
	defer span.End()
	defer a.observe(ctx, "facilities.list", time.Now())

	ds := a.db.From(facilitiesTable).Prepared(true).Select(facilityColumns...)

	for _, cond := range filterConditions(filter) {
		ds = ds.Where(cond)
	}

	ds = ds.Order(goqu.C("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	var rows []facilityRow
	if err := a.client.DB().SelectContext(ctx, &rows, query, args...); err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewUnavailableError("failed to list facilities", err)
	}

	facilities := make([]*entities.Facility, 0, len(rows))
	for i := range rows {
		facilities = append(facilities, rows[i].toEntity())
	}
	return facilities, nil
}

func filterConditions(filter repositories.FacilityFilter) []exp.Expression {
	var conds []exp.Expression

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		conds = append(conds, goqu.Ex{"status": statuses})
	}

	if region := strings.ToLower(strings.TrimSpace(filter.Region)); region != "" {
		conds = append(conds, goqu.Or(
			goqu.Func("LOWER", goqu.C("region")).Eq(region),
			goqu.Func("LOWER", goqu.C("region_abbr")).Eq(region),
		))
	}

	if filter.City != "" {
		conds = append(conds, goqu.Ex{"city": filter.City})
	}

	if filter.TypeSlug != "" {
		conds = append(conds, goqu.Ex{"type_slug": filter.TypeSlug})
	}

	return conds
}
