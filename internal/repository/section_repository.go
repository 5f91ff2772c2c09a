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

var sectionSchema = query.Schema{
	Table:   "sections",
	Columns: []string{"id", "module_id", "title", "position", "created_at", "updated_at"},
	Sortable: map[string]string{
		"title":     "title",
		"position":  "position",
		"createdAt": "created_at",
	},
	DefaultSort:   "created_at",
	SearchColumns: []string{"title"},
}

// SectionRepository provides database access for module sections.
type SectionRepository struct {
	db     *sqlx.DB
	runner *query.Runner
}

// NewSectionRepository creates a new instance of SectionRepository.
func NewSectionRepository(db *sqlx.DB, runner *query.Runner) *SectionRepository {
	return &SectionRepository{db: db, runner: runner}
}

// ListByModule returns one page of the sections belonging to moduleID.
func (r *SectionRepository) ListByModule(ctx context.Context, moduleID string, params query.Params) query.Result[query.Page[models.Section]] {
	return query.List[models.Section](ctx, r.runner, sectionSchema, params, sq.Eq{"module_id": moduleID})
}

func (r *SectionRepository) FindByID(ctx context.Context, id string) query.Result[*models.Section] {
	return query.Get[models.Section](ctx, r.runner, sectionSchema, id)
}

// Create inserts a section.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	stamp(&section.ID, &section.CreatedAt, &section.UpdatedAt)
	const q = `INSERT INTO sections (id, module_id, title, position, created_at, updated_at) VALUES (:id, :module_id, :title, :position, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, section); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Update overwrites title and position.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	section.UpdatedAt = time.Now().UTC()
	const q = `UPDATE sections SET title = :title, position = :position, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, section)
	if err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return affected(res, "update section")
}

// Delete removes a section and its lessons.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return affected(res, "delete section")
}
