package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-admin-api/pkg/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "lms", Password: "pw", Name: "lms_admin", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=lms password=pw dbname=lms_admin sslmode=disable", DSN(cfg))
}

func TestMigrationURLEscapesCredentials(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "lms", Password: "p@ss/word", Name: "lms_admin", SSLMode: "disable"}
	assert.Equal(t, "postgres://lms:p%40ss%2Fword@db:5432/lms_admin?sslmode=disable", MigrationURL(cfg))
}

func TestMigrationsAreEmbeddedInPairs(t *testing.T) {
	ups, err := fs.Glob(migrations, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrations, "migrations/*.down.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
