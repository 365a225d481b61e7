package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

func TestFeedbackAdapter_Create(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewFeedbackAdapter(client)

	mock.ExpectExec(`INSERT INTO "feedback"`).WillReturnResult(sqlmock.NewResult(0, 1))

	rating := 4
	err := adapter.Create(context.Background(), &entities.Feedback{
		ID:        "fb1",
		Type:      entities.FeedbackTypeRating,
		Rating:    &rating,
		Status:    "new",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackAdapter_Create_StoreDown(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewFeedbackAdapter(client)

	mock.ExpectExec(`INSERT INTO "feedback"`).WillReturnError(errors.New("connection refused"))

	err := adapter.Create(context.Background(), &entities.Feedback{ID: "fb1", Type: entities.FeedbackTypeComment, Message: "top"})
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestFeedbackAdapter_List(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewFeedbackAdapter(client)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "type", "rating", "message", "page_title", "page_url", "user_agent", "ip_address", "status", "created_at"}).
		AddRow("fb2", "comment", nil, "Handige site", nil, "/elektricien/utrecht", nil, nil, "new", now).
		AddRow("fb1", "rating", 5, nil, nil, nil, nil, nil, "new", now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .* FROM "feedback" ORDER BY "created_at" DESC LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(rows)

	items, err := adapter.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Handige site", items[0].Message)
	assert.Nil(t, items[0].Rating)
	require.NotNil(t, items[1].Rating)
	assert.Equal(t, 5, *items[1].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}
