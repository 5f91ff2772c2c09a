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

type moduleRepository interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.Module]]
	ListByRole(ctx context.Context, roleID string, params query.Params) query.Result[query.Page[models.Module]]
	FindByID(ctx context.Context, id string) query.Result[*models.Module]
	Create(ctx context.Context, module *models.Module) error
	Update(ctx context.Context, module *models.Module) error
	Delete(ctx context.Context, id string) error
}

type roleLookup interface {
	FindByID(ctx context.Context, id string) query.Result[*models.Role]
}

// ModuleService manages training modules.
type ModuleService struct {
	repo      moduleRepository
	roles     roleLookup
	validator *validator.Validate
	hooks     mutations
}

// NewModuleService constructs a ModuleService.
func NewModuleService(repo moduleRepository, roles roleLookup, logs actionRecorder, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ModuleService {
	return &ModuleService{
		repo:      repo,
		roles:     roles,
		validator: newValidator(validate),
		hooks:     mutations{logs: logs, cache: cache, logger: nopIfNil(logger)},
	}
}

// List returns a page of modules for the admin area.
func (s *ModuleService) List(ctx context.Context, params query.Params) query.Result[query.Page[models.Module]] {
	return s.repo.List(ctx, params)
}

// ListForRole returns the modules a staff member's role is trained on. Staff
// without a role see no modules.
func (s *ModuleService) ListForRole(ctx context.Context, roleID *string, params query.Params) query.Result[query.Page[models.Module]] {
	if roleID == nil || *roleID == "" {
		return query.Ok(query.Page[models.Module]{Rows: []models.Module{}})
	}
	return s.repo.ListByRole(ctx, *roleID, params)
}

// Get returns one module, or nil data when it does not exist.
func (s *ModuleService) Get(ctx context.Context, id string) query.Result[*models.Module] {
	return s.repo.FindByID(ctx, id)
}

// Create stores a module under an existing role.
func (s *ModuleService) Create(ctx context.Context, req models.ModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid module payload")
	}
	if _, err := existing(s.roles.FindByID(ctx, req.RoleID), "role"); err != nil {
		return nil, err
	}
	module := &models.Module{RoleID: req.RoleID, Title: req.Title, Description: req.Description}
	if err := s.repo.Create(ctx, module); err != nil {
		return nil, writeError(err, "module", "create")
	}
	s.hooks.done(ctx, models.ActionCreate, models.EntityModule, module.ID, fmt.Sprintf("created module %s", module.Title))
	return module, nil
}

// Update replaces the mutable fields of a module.
func (s *ModuleService) Update(ctx context.Context, id string, req models.ModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid module payload")
	}
	module, err := existing(s.repo.FindByID(ctx, id), "module")
	if err != nil {
		return nil, err
	}
	if req.RoleID != module.RoleID {
		if _, err := existing(s.roles.FindByID(ctx, req.RoleID), "role"); err != nil {
			return nil, err
		}
	}
	module.RoleID, module.Title, module.Description = req.RoleID, req.Title, req.Description
	if err := s.repo.Update(ctx, module); err != nil {
		return nil, writeError(err, "module", "update")
	}
	s.hooks.done(ctx, models.ActionUpdate, models.EntityModule, module.ID, fmt.Sprintf("updated module %s", module.Title))
	return module, nil
}

// Delete removes a module with its sections and lessons.
func (s *ModuleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "module", "delete")
	}
	s.hooks.done(ctx, models.ActionDelete, models.EntityModule, id, "deleted module")
	return nil
}
