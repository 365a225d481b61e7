package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

const claimsTable = "business_claims"

var claimColumns = []interface{}{
	"id", "user_id", "facility_id", "facility_slug", "facility_name", "status",
	"job_title", "company_name", "message", "verification_method",
	"contact_email", "contact_phone", "admin_notes", "rejection_reason",
	"reviewed_at", "reviewed_by", "created_at", "updated_at",
}

type claimRow struct {
	ID                 string         `db:"id"`
	UserID             sql.NullString `db:"user_id"`
	FacilityID         string         `db:"facility_id"`
	FacilitySlug       string         `db:"facility_slug"`
	FacilityName       string         `db:"facility_name"`
	Status             string         `db:"status"`
	JobTitle           sql.NullString `db:"job_title"`
	CompanyName        sql.NullString `db:"company_name"`
	Message            sql.NullString `db:"message"`
	VerificationMethod sql.NullString `db:"verification_method"`
	ContactEmail       string         `db:"contact_email"`
	ContactPhone       sql.NullString `db:"contact_phone"`
	AdminNotes         sql.NullString `db:"admin_notes"`
	RejectionReason    sql.NullString `db:"rejection_reason"`
	ReviewedAt         sql.NullTime   `db:"reviewed_at"`
	ReviewedBy         sql.NullString `db:"reviewed_by"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (r *claimRow) toEntity() *entities.Claim {
	c := &entities.Claim{
		ID:                 r.ID,
		UserID:             r.UserID.String,
		FacilityID:         r.FacilityID,
		FacilitySlug:       r.FacilitySlug,
		FacilityName:       r.FacilityName,
		Status:             entities.ClaimStatus(r.Status),
		JobTitle:           r.JobTitle.String,
		CompanyName:        r.CompanyName.String,
		Message:            r.Message.String,
		VerificationMethod: r.VerificationMethod.String,
		ContactEmail:       r.ContactEmail,
		ContactPhone:       r.ContactPhone.String,
		AdminNotes:         r.AdminNotes.String,
		RejectionReason:    r.RejectionReason.String,
		ReviewedBy:         r.ReviewedBy.String,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.ReviewedAt.Valid {
		t := r.ReviewedAt.Time
		c.ReviewedAt = &t
	}
	return c
}

// ClaimAdapter implements ClaimRepository on the business_claims table
type ClaimAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewClaimAdapter creates a new claim adapter
func NewClaimAdapter(client *postgres.Client) repositories.ClaimRepository {
	return &ClaimAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a claim
func (a *ClaimAdapter) Create(ctx context.Context, claim *entities.Claim) error {
	now := time.Now().UTC()
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = now
	}
	claim.UpdatedAt = now

	record := goqu.Record{
		"id":                  claim.ID,
		"user_id":             nullString(claim.UserID),
		"facility_id":         claim.FacilityID,
		"facility_slug":       claim.FacilitySlug,
		"facility_name":       claim.FacilityName,
		"status":              string(claim.Status),
		"job_title":           nullString(claim.JobTitle),
		"company_name":        nullString(claim.CompanyName),
		"message":             nullString(claim.Message),
		"verification_method": nullString(claim.VerificationMethod),
		"contact_email":       claim.ContactEmail,
		"contact_phone":       nullString(claim.ContactPhone),
		"created_at":          claim.CreatedAt,
		"updated_at":          claim.UpdatedAt,
	}

	query, args, err := a.db.Insert(claimsTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewUnavailableError("failed to create claim", err)
	}
	return nil
}

// GetByID retrieves a claim by ID
func (a *ClaimAdapter) GetByID(ctx context.Context, id string) (*entities.Claim, error) {
	query, args, err := a.db.From(claimsTable).
		Prepared(true).
		Select(claimColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row claimRow
	if err := a.client.DB().GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("claim with id %s not found", id))
		}
		return nil, apperrors.NewUnavailableError("failed to get claim", err)
	}
	return row.toEntity(), nil
}

// List returns claims newest first, optionally restricted to one status
func (a *ClaimAdapter) List(ctx context.Context, status entities.ClaimStatus) ([]*entities.Claim, error) {
	ds := a.db.From(claimsTable).Prepared(true).Select(claimColumns...)
	if status != "" {
		ds = ds.Where(goqu.Ex{"status": string(status)})
	}
	ds = ds.Order(goqu.C("created_at").Desc(), goqu.C("id").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	var rows []claimRow
	if err := a.client.DB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewUnavailableError("failed to list claims", err)
	}

	claims := make([]*entities.Claim, 0, len(rows))
	for i := range rows {
		claims = append(claims, rows[i].toEntity())
	}
	return claims, nil
}

// UpdateStatus records a review decision on a claim
func (a *ClaimAdapter) UpdateStatus(ctx context.Context, id string, change entities.StatusChange) error {
	now := time.Now().UTC()
	query, args, err := a.db.Update(claimsTable).
		Prepared(true).
		Set(goqu.Record{
			"status":           change.Status,
			"rejection_reason": nullString(change.RejectionReason),
			"admin_notes":      nullString(change.AdminNotes),
			"reviewed_by":      nullString(change.ReviewedBy),
			"reviewed_at":      now,
			"updated_at":       now,
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.exec(ctx, query, args, id, "failed to update claim")
}

// Delete removes a claim
func (a *ClaimAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(claimsTable).
		Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	return a.exec(ctx, query, args, id, "failed to delete claim")
}

func (a *ClaimAdapter) exec(ctx context.Context, query string, args []interface{}, id, msg string) error {
	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewUnavailableError(msg, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewUnavailableError(msg, err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("claim with id %s not found", id))
	}
	return nil
}
