package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-admin-api/internal/dto"
	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
)

// DashboardRepository computes the admin summary.
type DashboardRepository struct {
	runner *query.Runner
}

// NewDashboardRepository constructs a dashboard repository.
func NewDashboardRepository(runner *query.Runner) *DashboardRepository {
	return &DashboardRepository{runner: runner}
}

type userTotals struct {
	Total  int `db:"total"`
	Admins int `db:"admins"`
	Staff  int `db:"staff"`
}

// Summary counts active users by type and loads the most recent log entries,
// all from one snapshot.
func (r *DashboardRepository) Summary(ctx context.Context, recent int) (dto.DashboardSummary, error) {
	if recent < 0 {
		recent = 0
	}
	countSQL, countArgs, err := sq.Select("COUNT(*) AS total").
		Column(sq.Expr("COUNT(*) FILTER (WHERE type = ?) AS admins", string(models.UserTypeAdmin))).
		Column(sq.Expr("COUNT(*) FILTER (WHERE type = ?) AS staff", string(models.UserTypeStaff))).
		From("users").
		Where(sq.Eq{"active": true}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return dto.DashboardSummary{}, fmt.Errorf("build dashboard totals: %w", err)
	}

	logsSQL, logsArgs, err := sq.Select(actionLogSchema.Columns...).
		From(actionLogSchema.Table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(recent)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return dto.DashboardSummary{}, fmt.Errorf("build dashboard logs: %w", err)
	}

	var (
		totals userTotals
		logs   = make([]models.ActionLog, 0, recent)
	)
	err = r.runner.ReadTx(ctx, "dashboard_summary", func(ctx context.Context, tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &totals, countSQL, countArgs...); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if recent == 0 {
			return nil
		}
		if err := tx.SelectContext(ctx, &logs, logsSQL, logsArgs...); err != nil {
			return fmt.Errorf("recent action logs: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.DashboardSummary{}, err
	}

	summary := dto.DashboardSummary{
		TotalUsers:  totals.Total,
		TotalAdmins: totals.Admins,
		TotalStaff:  totals.Staff,
		RecentLogs:  logs,
	}
	if len(logs) > 0 {
		last := logs[0].CreatedAt
		summary.LastActivity = &last
	}
	return summary, nil
}
