package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
)

type lessonRepository interface {
	ListBySection(ctx context.Context, sectionID string, params query.Params) query.Result[query.Page[models.Lesson]]
	FindByID(ctx context.Context, id string) query.Result[*models.Lesson]
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id string) error
}

type sectionLookup interface {
	FindByID(ctx context.Context, id string) query.Result[*models.Section]
}

type objectRemover interface {
	Remove(ctx context.Context, objectPath string) error
}

// LessonService manages lessons. Uploaded content is handled by
// LessonContentService.
type LessonService struct {
	repo      lessonRepository
	sections  sectionLookup
	objects   objectRemover
	validator *validator.Validate
	logger    *zap.Logger
	hooks     mutations
}

// NewLessonService constructs a LessonService.
func NewLessonService(repo lessonRepository, sections sectionLookup, objects objectRemover, logs actionRecorder, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *LessonService {
	logger = nopIfNil(logger)
	return &LessonService{
		repo:      repo,
		sections:  sections,
		objects:   objects,
		validator: newValidator(validate),
		logger:    logger,
		hooks:     mutations{logs: logs, cache: cache, logger: logger},
	}
}

// ListBySection returns a page of the lessons of sectionID.
func (s *LessonService) ListBySection(ctx context.Context, sectionID string, params query.Params) query.Result[query.Page[models.Lesson]] {
	return s.repo.ListBySection(ctx, sectionID, params)
}

// Get returns one lesson, or nil data when it does not exist.
func (s *LessonService) Get(ctx context.Context, id string) query.Result[*models.Lesson] {
	return s.repo.FindByID(ctx, id)
}

// Create adds a lesson to an existing section.
func (s *LessonService) Create(ctx context.Context, sectionID string, req models.LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid lesson payload")
	}
	if _, err := existing(s.sections.FindByID(ctx, sectionID), "section"); err != nil {
		return nil, err
	}
	lesson := &models.Lesson{SectionID: sectionID}
	applyLesson(lesson, req)
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, writeError(err, "lesson", "create")
	}
	s.hooks.done(ctx, models.ActionCreate, models.EntityLesson, lesson.ID, fmt.Sprintf("created lesson %s", lesson.Title))
	return lesson, nil
}

// Update replaces the editable fields of a lesson.
func (s *LessonService) Update(ctx context.Context, id string, req models.LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid lesson payload")
	}
	lesson, err := existing(s.repo.FindByID(ctx, id), "lesson")
	if err != nil {
		return nil, err
	}
	applyLesson(lesson, req)
	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, writeError(err, "lesson", "update")
	}
	s.hooks.done(ctx, models.ActionUpdate, models.EntityLesson, lesson.ID, fmt.Sprintf("updated lesson %s", lesson.Title))
	return lesson, nil
}

// Delete removes the lesson and then its stored content. A leftover object is
// logged but does not fail the request.
func (s *LessonService) Delete(ctx context.Context, id string) error {
	lesson, err := existing(s.repo.FindByID(ctx, id), "lesson")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "lesson", "delete")
	}
	if lesson.ContentPath != nil && s.objects != nil {
		if err := s.objects.Remove(ctx, *lesson.ContentPath); err != nil {
			s.logger.Warn("failed to remove lesson content", zap.String("lesson_id", id), zap.String("path", *lesson.ContentPath), zap.Error(err))
		}
	}
	s.hooks.done(ctx, models.ActionDelete, models.EntityLesson, id, fmt.Sprintf("deleted lesson %s", lesson.Title))
	return nil
}

func applyLesson(lesson *models.Lesson, req models.LessonRequest) {
	lesson.Title = req.Title
	lesson.ContentType = req.ContentType
	lesson.Body = req.Body
	lesson.DurationMinutes = req.DurationMinutes
	lesson.Position = req.Position
}
