package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

const feedbackTable = "feedback"

type feedbackRow struct {
	ID        string         `db:"id"`
	Type      string         `db:"type"`
	Rating    sql.NullInt64  `db:"rating"`
	Message   sql.NullString `db:"message"`
	PageTitle sql.NullString `db:"page_title"`
	PageURL   sql.NullString `db:"page_url"`
	UserAgent sql.NullString `db:"user_agent"`
	IPAddress sql.NullString `db:"ip_address"`
	Status    string         `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
}

// FeedbackAdapter implements feedback persistence in Postgres.
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(client *postgres.Client) repositories.FeedbackRepository {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a feedback record.
func (a *FeedbackAdapter) Create(ctx context.Context, feedback *entities.Feedback) error {
	if feedback == nil {
		return apperrors.NewInternalError("feedback is nil", fmt.Errorf("feedback is nil"))
	}

	var rating sql.NullInt64
	if feedback.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*feedback.Rating), Valid: true}
	}

	record := goqu.Record{
		"id":         feedback.ID,
		"type":       string(feedback.Type),
		"rating":     rating,
		"message":    nullString(feedback.Message),
		"page_title": nullString(feedback.PageTitle),
		"page_url":   nullString(feedback.PageURL),
		"user_agent": nullString(feedback.UserAgent),
		"ip_address": nullString(feedback.IPAddress),
		"status":     feedback.Status,
		"created_at": feedback.CreatedAt,
	}

	query, args, err := a.db.Insert(feedbackTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build feedback insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewUnavailableError("failed to create feedback", err)
	}

	return nil
}

// List returns the most recent feedback first.
func (a *FeedbackAdapter) List(ctx context.Context, limit int) ([]*entities.Feedback, error) {
	ds := a.db.From(feedbackTable).
		Prepared(true).
		Select("id", "type", "rating", "message", "page_title", "page_url", "user_agent", "ip_address", "status", "created_at").
		Order(goqu.C("created_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feedback list query", err)
	}

	var rows []feedbackRow
	if err := a.client.DB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewUnavailableError("failed to list feedback", err)
	}

	out := make([]*entities.Feedback, 0, len(rows))
	for _, r := range rows {
		fb := &entities.Feedback{
			ID:        r.ID,
			Type:      entities.FeedbackType(r.Type),
			Message:   r.Message.String,
			PageTitle: r.PageTitle.String,
			PageURL:   r.PageURL.String,
			UserAgent: r.UserAgent.String,
			IPAddress: r.IPAddress.String,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}
		if r.Rating.Valid {
			v := int(r.Rating.Int64)
			fb.Rating = &v
		}
		out = append(out, fb)
	}
	return out, nil
}
