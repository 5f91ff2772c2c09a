package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
)

var moduleSchema = query.Schema{
	Table:   "modules",
	Columns: []string{"id", "role_id", "title", "description", "created_at", "updated_at"},
	Sortable: map[string]string{
		"title":     "title",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	DefaultSort:   "created_at",
	SearchColumns: []string{"title"},
	Filters:       map[string]string{"roleIds": "role_id"},
}

// ModuleRepository provides database access for training modules.
type ModuleRepository struct {
	db     *sqlx.DB
	runner *query.Runner
}

// NewModuleRepository creates a new instance of ModuleRepository.
func NewModuleRepository(db *sqlx.DB, runner *query.Runner) *ModuleRepository {
	return &ModuleRepository{db: db, runner: runner}
}

// List returns one page of modules, optionally filtered by roleIds.
func (r *ModuleRepository) List(ctx context.Context, params query.Params) query.Result[query.Page[models.Module]] {
	return query.List[models.Module](ctx, r.runner, moduleSchema, params)
}

// ListByRole returns one page of the modules targeted at roleID.
func (r *ModuleRepository) ListByRole(ctx context.Context, roleID string, params query.Params) query.Result[query.Page[models.Module]] {
	return query.List[models.Module](ctx, r.runner, moduleSchema, params, sq.Eq{"role_id": roleID})
}

func (r *ModuleRepository) FindByID(ctx context.Context, id string) query.Result[*models.Module] {
	return query.Get[models.Module](ctx, r.runner, moduleSchema, id)
}

// Create inserts a module.
func (r *ModuleRepository) Create(ctx context.Context, module *models.Module) error {
	stamp(&module.ID, &module.CreatedAt, &module.UpdatedAt)
	const q = `INSERT INTO modules (id, role_id, title, description, created_at, updated_at) VALUES (:id, :role_id, :title, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, module); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// Update overwrites the mutable module fields.
func (r *ModuleRepository) Update(ctx context.Context, module *models.Module) error {
	module.UpdatedAt = time.Now().UTC()
	const q = `UPDATE modules SET role_id = :role_id, title = :title, description = :description, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, module)
	if err != nil {
		return fmt.Errorf("update module: %w", err)
	}
	return affected(res, "update module")
}

// Delete removes a module; sections and lessons cascade.
func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	return affected(res, "delete module")
}
