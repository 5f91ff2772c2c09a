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

var lessonSchema = query.Schema{
	Table: "lessons",
	Columns: []string{
		"id", "section_id", "title", "content_type", "body", "content_path",
		"duration_minutes", "position", "created_at", "updated_at",
	},
	Sortable: map[string]string{
		"title":           "title",
		"position":        "position",
		"durationMinutes": "duration_minutes",
		"createdAt":       "created_at",
	},
	DefaultSort:   "created_at",
	SearchColumns: []string{"title"},
	Filters:       map[string]string{"contentTypes": "content_type"},
}

// LessonRepository provides database access for lessons.
type LessonRepository struct {
	db     *sqlx.DB
	runner *query.Runner
}

// NewLessonRepository creates a new instance of LessonRepository.
func NewLessonRepository(db *sqlx.DB, runner *query.Runner) *LessonRepository {
	return &LessonRepository{db: db, runner: runner}
}

// ListBySection returns one page of the lessons belonging to sectionID.
func (r *LessonRepository) ListBySection(ctx context.Context, sectionID string, params query.Params) query.Result[query.Page[models.Lesson]] {
	return query.List[models.Lesson](ctx, r.runner, lessonSchema, params, sq.Eq{"section_id": sectionID})
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) query.Result[*models.Lesson] {
	return query.Get[models.Lesson](ctx, r.runner, lessonSchema, id)
}

// Create inserts a lesson.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	stamp(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
	const q = `INSERT INTO lessons (id, section_id, title, content_type, body, content_path, duration_minutes, position, created_at, updated_at) VALUES (:id, :section_id, :title, :content_type, :body, :content_path, :duration_minutes, :position, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// Update overwrites the editable lesson fields. The content path is managed by
// SetContentPath.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = time.Now().UTC()
	const q = `UPDATE lessons SET title = :title, content_type = :content_type, body = :body, duration_minutes = :duration_minutes, position = :position, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, lesson)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return affected(res, "update lesson")
}

// SetContentPath records where the lesson's uploaded content lives.
func (r *LessonRepository) SetContentPath(ctx context.Context, id, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE lessons SET content_path = $2, updated_at = $3 WHERE id = $1`, id, path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set lesson content path: %w", err)
	}
	return affected(res, "set lesson content path")
}

// Delete removes a lesson.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return affected(res, "delete lesson")
}
