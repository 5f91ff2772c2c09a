package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
)

var actionLogSchema = query.Schema{
	Table: "action_logs",
	Columns: []string{
		"id", "user_id", "action", "entity", "entity_id", "description",
		"ip_address", "user_agent", "created_at",
	},
	Sortable: map[string]string{
		"createdAt": "created_at",
		"action":    "action",
	},
	DefaultSort:   "created_at",
	SearchColumns: []string{"description"},
	Filters: map[string]string{
		"userIds":  "user_id",
		"actions":  "action",
		"entities": "entity",
	},
}

// ActionLogRepository persists and lists the action log.
type ActionLogRepository struct {
	db     *sqlx.DB
	runner *query.Runner
}

// NewActionLogRepository creates a new instance of ActionLogRepository.
func NewActionLogRepository(db *sqlx.DB, runner *query.Runner) *ActionLogRepository {
	return &ActionLogRepository{db: db, runner: runner}
}

// List returns one page of log entries, newest first by default.
func (r *ActionLogRepository) List(ctx context.Context, params query.Params) query.Result[query.Page[models.ActionLog]] {
	return query.List[models.ActionLog](ctx, r.runner, actionLogSchema, params)
}

// Create stores an action log entry.
func (r *ActionLogRepository) Create(ctx context.Context, entry *models.ActionLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO action_logs (id, user_id, action, entity, entity_id, description, ip_address, user_agent, created_at) VALUES (:id, :user_id, :action, :entity, :entity_id, :description, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, entry); err != nil {
		return fmt.Errorf("create action log: %w", err)
	}
	return nil
}
