package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-admin-api/internal/query"
	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
)

// DashboardCachePattern matches every cached dashboard summary.
const DashboardCachePattern = "dash:*"

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// actionRecorder is the slice of ActionLogService the entity services use.
type actionRecorder interface {
	Record(ctx context.Context, action, entity string, entityID *string, description string)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// mutations bundles the side effects every successful write triggers.
type mutations struct {
	logs   actionRecorder
	cache  cacheInvalidator
	logger *zap.Logger
}

func (m mutations) done(ctx context.Context, action, entity, id, description string) {
	if m.logs != nil {
		entityID := id
		m.logs.Record(ctx, action, entity, &entityID, description)
	}
	if m.cache != nil {
		if err := m.cache.Invalidate(ctx, DashboardCachePattern); err != nil && m.logger != nil {
			m.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
		}
	}
}

func newValidator(v *validator.Validate) *validator.Validate {
	if v == nil {
		return validator.New()
	}
	return v
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// existing unwraps a single-entity fetch for write paths, where a missing row
// is an error.
func existing[T any](res query.Result[*T], entity string) (*T, error) {
	value, ok := res.Data()
	if !ok {
		return nil, appErrors.Internal(errors.New(res.Error()), fmt.Sprintf("failed to load %s", entity))
	}
	if value == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", entity))
	}
	return value, nil
}

// writeError maps a repository write failure onto the API error taxonomy.
func writeError(err error, entity, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("%s already exists", entity))
		case pqForeignKeyViolation:
			return appErrors.Invalid(err, fmt.Sprintf("%s references a record that does not exist", entity))
		}
	}
	if isNoRows(err) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", entity))
	}
	return appErrors.Internal(err, fmt.Sprintf("failed to %s %s", op, entity))
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
