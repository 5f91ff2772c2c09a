package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
)

var branchSchema = query.Schema{
	Table:   "branches",
	Columns: []string{"id", "name", "city", "address", "phone", "created_at", "updated_at"},
	Sortable: map[string]string{
		"name":      "name",
		"city":      "city",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	DefaultSort:   "created_at",
	SearchColumns: []string{"name"},
}

// BranchRepository provides database access for branches.
type BranchRepository struct {
	db     *sqlx.DB
	runner *query.Runner
}

// NewBranchRepository creates a new instance of BranchRepository.
func NewBranchRepository(db *sqlx.DB, runner *query.Runner) *BranchRepository {
	return &BranchRepository{db: db, runner: runner}
}

// List returns one page of branches.
func (r *BranchRepository) List(ctx context.Context, params query.Params) query.Result[query.Page[models.Branch]] {
	return query.List[models.Branch](ctx, r.runner, branchSchema, params)
}

// FindByID returns the branch or nil data when it does not exist.
func (r *BranchRepository) FindByID(ctx context.Context, id string) query.Result[*models.Branch] {
	return query.Get[models.Branch](ctx, r.runner, branchSchema, id)
}

// Create inserts a branch.
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	stamp(&branch.ID, &branch.CreatedAt, &branch.UpdatedAt)
	const q = `INSERT INTO branches (id, name, city, address, phone, created_at, updated_at) VALUES (:id, :name, :city, :address, :phone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, branch); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// Update overwrites the mutable branch fields.
func (r *BranchRepository) Update(ctx context.Context, branch *models.Branch) error {
	branch.UpdatedAt = time.Now().UTC()
	const q = `UPDATE branches SET name = :name, city = :city, address = :address, phone = :phone, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, branch)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return affected(res, "update branch")
}

// Delete removes a branch. Users of the branch keep existing with no branch.
func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	return affected(res, "delete branch")
}
