package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// stamp fills the id and timestamps of a record about to be inserted.
func stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// affected maps an UPDATE/DELETE that touched no rows to sql.ErrNoRows.
func affected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
