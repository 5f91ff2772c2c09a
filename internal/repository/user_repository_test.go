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

var userColumnList = []string{"id", "email", "password_hash", "full_name", "type", "branch_id", "role_id", "active", "last_login", "created_at", "updated_at"}

func TestFindByEmail(t *testing.T) {
	db, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, runner)

	now := time.Now()
	rows := sqlmock.NewRows(userColumnList).
		AddRow("1", "user@example.com", "hash", "User", string(models.UserTypeAdmin), nil, nil, true, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("User@Example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "User@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, models.UserTypeAdmin, user.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailMissing(t *testing.T) {
	db, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, runner)

	mock.ExpectQuery("FROM users WHERE LOWER\\(email\\)").WillReturnRows(sqlmock.NewRows(userColumnList))

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListUsersByBranchAndType(t *testing.T) {
	db, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, runner)

	now := time.Now()
	branch := "b1"
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE (branch_id IN ($1) AND type IN ($2)) ORDER BY full_name ASC, id ASC LIMIT 20 OFFSET 20")).
		WithArgs("b1", "STAFF").
		WillReturnRows(sqlmock.NewRows(userColumnList).
			AddRow("u1", "a@example.com", "hash", "Ana", "STAFF", branch, nil, true, nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE (branch_id IN ($1) AND type IN ($2))")).
		WithArgs("b1", "STAFF").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectCommit()

	res := repo.List(context.Background(), query.Params{
		Page: "2", Limit: "20", Sort: "fullName", Order: "asc",
		Filters: map[string][]string{"branchIds": {"b1"}, "types": {"STAFF"}},
	})

	page, ok := res.Data()
	require.True(t, ok, res.Error())
	assert.Len(t, page.Rows, 1)
	assert.Equal(t, 21, page.Count)
	assert.Equal(t, 2, page.PageCount)
	require.NotNil(t, page.Rows[0].BranchID)
	assert.Equal(t, "b1", *page.Rows[0].BranchID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSoftDelete(t *testing.T) {
	db, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, runner)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET active = FALSE")).
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
