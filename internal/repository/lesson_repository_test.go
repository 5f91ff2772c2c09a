package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
)

var lessonColumns = []string{"id", "section_id", "title", "content_type", "body", "content_path", "duration_minutes", "position", "created_at", "updated_at"}

func TestLessonListFiltersContentType(t *testing.T) {
	db, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db, runner)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM lessons WHERE (section_id = $1 AND content_type IN ($2,$3)) ORDER BY duration_minutes DESC, id DESC LIMIT 10 OFFSET 0")).
		WithArgs("sec-1", "VIDEO", "TEXT").
		WillReturnRows(sqlmock.NewRows(lessonColumns).
			AddRow("l1", "sec-1", "Knife Skills", "VIDEO", nil, "lessons/l1/knives.mp4", 30, 1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons WHERE (section_id = $1 AND content_type IN ($2,$3))")).
		WithArgs("sec-1", "VIDEO", "TEXT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	params := query.Params{Sort: "durationMinutes", Filters: map[string][]string{"contentTypes": {"VIDEO", "TEXT"}}}
	res := repo.ListBySection(context.Background(), "sec-1", params)

	page, ok := res.Data()
	require.True(t, ok, res.Error())
	require.Len(t, page.Rows, 1)
	assert.Equal(t, models.ContentVideo, page.Rows[0].ContentType)
	require.NotNil(t, page.Rows[0].ContentPath)
	assert.Equal(t, "lessons/l1/knives.mp4", *page.Rows[0].ContentPath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonSetContentPath(t *testing.T) {
	db, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db, runner)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE lessons SET content_path = $2")).
		WithArgs("l1", "lessons/l1/intro.pdf", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lessons SET content_path = $2")).
		WithArgs("l2", "lessons/l2/intro.pdf", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetContentPath(context.Background(), "l1", "lessons/l1/intro.pdf"))
	assert.ErrorIs(t, repo.SetContentPath(context.Background(), "l2", "lessons/l2/intro.pdf"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
