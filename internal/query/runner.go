package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Observer receives query timings; the metrics service satisfies it.
type Observer interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// Page is one page of rows plus totals computed from the same predicate.
type Page[T any] struct {
	Rows      []T `json:"rows"`
	Count     int `json:"count"`
	PageCount int `json:"numberOfPages"`
}

// RunnerConfig tunes a Runner.
type RunnerConfig struct {
	Timeout  time.Duration
	MaxLimit int
	Logger   *zap.Logger
	Metrics  Observer
}

// Runner executes read queries in snapshot transactions.
type Runner struct {
	db       *sqlx.DB
	timeout  time.Duration
	maxLimit int
	logger   *zap.Logger
	metrics  Observer
}

// NewRunner binds a Runner to the shared connection pool.
func NewRunner(db *sqlx.DB, cfg RunnerConfig) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = MaxLimit
	}
	return &Runner{
		db:       db,
		timeout:  cfg.Timeout,
		maxLimit: cfg.MaxLimit,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// Normalize applies the runner's page size ceiling.
func (r *Runner) Normalize(p Params, schema Schema) Spec {
	return NormalizeWithMax(p, schema, r.maxLimit)
}

var readOnly = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}

// ReadTx runs fn inside a read-only repeatable-read transaction bounded by the
// runner timeout. Any error from fn rolls the transaction back.
func (r *Runner) ReadTx(ctx context.Context, label string, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.ObserveDBQuery(label, time.Since(start))
		}
	}()

	tx, err := r.db.BeginTxx(ctx, readOnly)
	if err != nil {
		return fmt.Errorf("begin %s: %w", label, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", label, err)
	}
	return nil
}

// List runs the paged list operation for schema. Rows and count are read in the
// same transaction so they agree on the predicate and the snapshot.
func List[T any](ctx context.Context, r *Runner, schema Schema, params Params, scope ...sq.Sqlizer) Result[Page[T]] {
	spec := r.Normalize(params, schema)
	plan := Build(schema, spec, scope...)

	rowsSQL, rowsArgs, err := plan.Rows(schema.Columns...).ToSql()
	if err != nil {
		return failPage[T](r, schema.Table, fmt.Errorf("build list: %w", err))
	}
	countSQL, countArgs, err := plan.Count().ToSql()
	if err != nil {
		return failPage[T](r, schema.Table, fmt.Errorf("build count: %w", err))
	}

	page := Page[T]{Rows: make([]T, 0, spec.Limit)}
	err = r.ReadTx(ctx, "list_"+schema.Table, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &page.Rows, rowsSQL, rowsArgs...); err != nil {
			return fmt.Errorf("list %s: %w", schema.Table, err)
		}
		if err := tx.GetContext(ctx, &page.Count, countSQL, countArgs...); err != nil {
			return fmt.Errorf("count %s: %w", schema.Table, err)
		}
		return nil
	})
	if err != nil {
		return failPage[T](r, schema.Table, err)
	}

	if page.Rows == nil {
		page.Rows = []T{}
	}
	page.PageCount = PageCount(page.Count, spec.Limit)
	return Ok(page)
}

// Get fetches one row by primary key. A missing row is a success with nil data.
func Get[T any](ctx context.Context, r *Runner, schema Schema, id string) Result[*T] {
	query, args, err := sq.Select(schema.Columns...).
		From(schema.Table).
		Where(sq.Eq{schema.idColumn(): id}).
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return Fail[*T](fmt.Sprintf("build %s fetch: %v", schema.Table, err))
	}

	var (
		row   T
		found bool
	)
	err = r.ReadTx(ctx, "get_"+schema.Table, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("find %s: %w", schema.Table, err)
		}
		found = true
		return nil
	})
	if err != nil {
		r.logger.Error("single fetch failed", zap.String("table", schema.Table), zap.String("id", id), zap.Error(err))
		return Fail[*T](err.Error())
	}
	if !found {
		return Ok[*T](nil)
	}
	return Ok(&row)
}

// All returns every row matching params, ignoring page and limit, up to ceiling
// rows. Exports use it to reuse list filters.
func All[T any](ctx context.Context, r *Runner, schema Schema, params Params, ceiling int, scope ...sq.Sqlizer) Result[[]T] {
	plan := Build(schema, r.Normalize(params, schema), scope...)
	if ceiling < 0 {
		ceiling = 0
	}
	query, args, err := plan.Unpaged(uint64(ceiling), schema.Columns...).ToSql()
	if err != nil {
		return Fail[[]T](fmt.Sprintf("build %s export: %v", schema.Table, err))
	}

	rows := make([]T, 0)
	err = r.ReadTx(ctx, "all_"+schema.Table, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
			return fmt.Errorf("list %s: %w", schema.Table, err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("unpaged list failed", zap.String("table", schema.Table), zap.Error(err))
		return Fail[[]T](err.Error())
	}
	return Ok(rows)
}

func failPage[T any](r *Runner, table string, err error) Result[Page[T]] {
	r.logger.Error("paged list failed", zap.String("table", table), zap.Error(err))
	return Fail[Page[T]](err.Error())
}
