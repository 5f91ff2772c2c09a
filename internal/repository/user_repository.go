package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
)

const userColumns = "id, email, password_hash, full_name, type, branch_id, role_id, active, last_login, created_at, updated_at"

var userSchema = query.Schema{
	Table: "users",
	Columns: []string{
		"id", "email", "password_hash", "full_name", "type", "branch_id", "role_id",
		"active", "last_login", "created_at", "updated_at",
	},
	Sortable: map[string]string{
		"fullName":  "full_name",
		"email":     "email",
		"createdAt": "created_at",
		"lastLogin": "last_login",
	},
	DefaultSort:   "created_at",
	SearchColumns: []string{"full_name", "email"},
	Filters: map[string]string{
		"branchIds": "branch_id",
		"roleIds":   "role_id",
		"types":     "type",
		"active":    "active",
	},
}

// UserRepository provides database access for user management.
type UserRepository struct {
	db     *sqlx.DB
	runner *query.Runner
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB, runner *query.Runner) *UserRepository {
	return &UserRepository{db: db, runner: runner}
}

// List returns one page of users matching the branch, role and type filters.
func (r *UserRepository) List(ctx context.Context, params query.Params) query.Result[query.Page[models.User]] {
	return query.List[models.User](ctx, r.runner, userSchema, params)
}

// All returns the users matching params without paging, for exports.
func (r *UserRepository) All(ctx context.Context, params query.Params, ceiling int) query.Result[[]models.User] {
	return query.All[models.User](ctx, r.runner, userSchema, params, ceiling)
}

// FindByID returns the user or nil data when it does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id string) query.Result[*models.User] {
	return query.Get[models.User](ctx, r.runner, userSchema, id)
}

// FindByEmail returns a user by email address. sql.ErrNoRows is returned as is.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const q = `UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, ts, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	const q = `INSERT INTO users (id, email, password_hash, full_name, type, branch_id, role_id, active, created_at, updated_at) VALUES (:id, :email, :password_hash, :full_name, :type, :branch_id, :role_id, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update updates mutable fields of a user, including the password hash.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const q = `UPDATE users SET full_name = :full_name, type = :type, branch_id = :branch_id, role_id = :role_id, active = :active, password_hash = :password_hash, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return affected(res, "update user")
}

// Delete performs a soft delete by marking the user inactive.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const q = `UPDATE users SET active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return affected(res, "delete user")
}
