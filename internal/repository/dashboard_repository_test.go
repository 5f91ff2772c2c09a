package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var actionLogColumns = []string{"id", "user_id", "action", "entity", "entity_id", "description", "ip_address", "user_agent", "created_at"}

func TestDashboardSummary(t *testing.T) {
	_, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDashboardRepository(runner)

	newest := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)
	older := newest.Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE type = $1) AS admins, COUNT(*) FILTER (WHERE type = $2) AS staff FROM users WHERE active = $3")).
		WithArgs("ADMIN", "STAFF", true).
		WillReturnRows(sqlmock.NewRows([]string{"total", "admins", "staff"}).AddRow(12, 2, 10))
	mock.ExpectQuery(regexp.QuoteMeta("FROM action_logs ORDER BY created_at DESC, id DESC LIMIT 5")).
		WillReturnRows(sqlmock.NewRows(actionLogColumns).
			AddRow("a2", "u1", "CREATE", "lesson", "l1", "created lesson", "10.0.0.1", "curl", newest).
			AddRow("a1", "u1", "LOGIN", "user", "u1", "logged in", "10.0.0.1", "curl", older))
	mock.ExpectCommit()

	summary, err := repo.Summary(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TotalUsers)
	assert.Equal(t, 2, summary.TotalAdmins)
	assert.Equal(t, 10, summary.TotalStaff)
	assert.Len(t, summary.RecentLogs, 2)
	require.NotNil(t, summary.LastActivity)
	assert.True(t, newest.Equal(*summary.LastActivity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardSummaryWithoutLogs(t *testing.T) {
	_, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDashboardRepository(runner)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows([]string{"total", "admins", "staff"}).AddRow(0, 0, 0))
	mock.ExpectQuery("FROM action_logs").WillReturnRows(sqlmock.NewRows(actionLogColumns))
	mock.ExpectCommit()

	summary, err := repo.Summary(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, summary.RecentLogs)
	assert.Nil(t, summary.LastActivity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardSummaryRollsBackOnError(t *testing.T) {
	_, runner, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDashboardRepository(runner)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WillReturnError(errors.New("relation users does not exist"))
	mock.ExpectRollback()

	_, err := repo.Summary(context.Background(), 5)
	assert.ErrorContains(t, err, "count users")
	assert.NoError(t, mock.ExpectationsWereMet())
}
