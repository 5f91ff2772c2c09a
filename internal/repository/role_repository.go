package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
)

var roleSchema = query.Schema{
	Table:   "roles",
	Columns: []string{"id", "name", "description", "created_at", "updated_at"},
	Sortable: map[string]string{
		"name":      "name",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	DefaultSort:   "created_at",
	SearchColumns: []string{"name"},
}

// RoleRepository provides database access for career roles.
type RoleRepository struct {
	db     *sqlx.DB
	runner *query.Runner
}

// NewRoleRepository creates a new instance of RoleRepository.
func NewRoleRepository(db *sqlx.DB, runner *query.Runner) *RoleRepository {
	return &RoleRepository{db: db, runner: runner}
}

func (r *RoleRepository) List(ctx context.Context, params query.Params) query.Result[query.Page[models.Role]] {
	return query.List[models.Role](ctx, r.runner, roleSchema, params)
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) query.Result[*models.Role] {
	return query.Get[models.Role](ctx, r.runner, roleSchema, id)
}

// Create inserts a role.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	stamp(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	const q = `INSERT INTO roles (id, name, description, created_at, updated_at) VALUES (:id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, role); err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// Update overwrites name and description.
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	role.UpdatedAt = time.Now().UTC()
	const q = `UPDATE roles SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return affected(res, "update role")
}

// Delete removes a role together with its modules.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return affected(res, "delete role")
}
