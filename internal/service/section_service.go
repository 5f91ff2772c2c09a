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

type sectionRepository interface {
	ListByModule(ctx context.Context, moduleID string, params query.Params) query.Result[query.Page[models.Section]]
	FindByID(ctx context.Context, id string) query.Result[*models.Section]
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id string) error
}

type moduleLookup interface {
	FindByID(ctx context.Context, id string) query.Result[*models.Module]
}

// SectionService manages the sections of a module.
type SectionService struct {
	repo      sectionRepository
	modules   moduleLookup
	validator *validator.Validate
	hooks     mutations
}

// NewSectionService constructs a SectionService.
func NewSectionService(repo sectionRepository, modules moduleLookup, logs actionRecorder, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SectionService {
	return &SectionService{
		repo:      repo,
		modules:   modules,
		validator: newValidator(validate),
		hooks:     mutations{logs: logs, cache: cache, logger: nopIfNil(logger)},
	}
}

// ListByModule returns a page of the sections of moduleID.
func (s *SectionService) ListByModule(ctx context.Context, moduleID string, params query.Params) query.Result[query.Page[models.Section]] {
	return s.repo.ListByModule(ctx, moduleID, params)
}

func (s *SectionService) Get(ctx context.Context, id string) query.Result[*models.Section] {
	return s.repo.FindByID(ctx, id)
}

// Create adds a section to an existing module.
func (s *SectionService) Create(ctx context.Context, moduleID string, req models.SectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid section payload")
	}
	if _, err := existing(s.modules.FindByID(ctx, moduleID), "module"); err != nil {
		return nil, err
	}
	section := &models.Section{ModuleID: moduleID, Title: req.Title, Position: req.Position}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, writeError(err, "section", "create")
	}
	s.hooks.done(ctx, models.ActionCreate, models.EntitySection, section.ID, fmt.Sprintf("created section %s", section.Title))
	return section, nil
}

func (s *SectionService) Update(ctx context.Context, id string, req models.SectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid section payload")
	}
	section, err := existing(s.repo.FindByID(ctx, id), "section")
	if err != nil {
		return nil, err
	}
	section.Title, section.Position = req.Title, req.Position
	if err := s.repo.Update(ctx, section); err != nil {
		return nil, writeError(err, "section", "update")
	}
	s.hooks.done(ctx, models.ActionUpdate, models.EntitySection, section.ID, fmt.Sprintf("updated section %s", section.Title))
	return section, nil
}

func (s *SectionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "section", "delete")
	}
	s.hooks.done(ctx, models.ActionDelete, models.EntitySection, id, "deleted section")
	return nil
}
