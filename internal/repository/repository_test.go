package repository

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-admin-api/internal/query"
)

func newMock(t *testing.T) (*sqlx.DB, *query.Runner, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	runner := query.NewRunner(sqlxdb, query.RunnerConfig{Timeout: time.Second})
	return sqlxdb, runner, mock, func() {
		db.Close()
	}
}
