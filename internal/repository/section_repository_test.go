package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-admin-api/internal/query"
)

func TestSectionListScopedToModule(t *testing.T) {
	db, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSectionRepository(db, runner)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "module_id", "title", "position", "created_at", "updated_at"})
	for i := 21; i <= 23; i++ {
		rows.AddRow(fmt.Sprintf("s%d", i), "m1", fmt.Sprintf("Section %d", i), i, now, now)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM sections WHERE module_id = $1 ORDER BY position ASC, id ASC LIMIT 10 OFFSET 20")).
		WithArgs("m1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sections WHERE module_id = $1")).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))
	mock.ExpectCommit()

	res := repo.ListByModule(context.Background(), "m1", query.Params{Page: "3", Limit: "10", Sort: "position", Order: "asc"})

	page, ok := res.Data()
	require.True(t, ok, res.Error())
	assert.Len(t, page.Rows, 3)
	assert.Equal(t, 23, page.Count)
	assert.Equal(t, 3, page.PageCount)
	for _, s := range page.Rows {
		assert.Equal(t, "m1", s.ModuleID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
