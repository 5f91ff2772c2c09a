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

type roleRepository interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.Role]]
	FindByID(ctx context.Context, id string) query.Result[*models.Role]
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id string) error
}

// RoleService manages career roles.
type RoleService struct {
	repo      roleRepository
	validator *validator.Validate
	hooks     mutations
}

func NewRoleService(repo roleRepository, logs actionRecorder, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *RoleService {
	return &RoleService{
		repo:      repo,
		validator: newValidator(validate),
		hooks:     mutations{logs: logs, cache: cache, logger: nopIfNil(logger)},
	}
}

func (s *RoleService) List(ctx context.Context, params query.Params) query.Result[query.Page[models.Role]] {
	return s.repo.List(ctx, params)
}

func (s *RoleService) Get(ctx context.Context, id string) query.Result[*models.Role] {
	return s.repo.FindByID(ctx, id)
}

func (s *RoleService) Create(ctx context.Context, req models.RoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid role payload")
	}
	role := &models.Role{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, writeError(err, "role", "create")
	}
	s.hooks.done(ctx, models.ActionCreate, models.EntityRole, role.ID, fmt.Sprintf("created role %s", role.Name))
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id string, req models.RoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid role payload")
	}
	role, err := existing(s.repo.FindByID(ctx, id), "role")
	if err != nil {
		return nil, err
	}
	role.Name, role.Description = req.Name, req.Description
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, writeError(err, "role", "update")
	}
	s.hooks.done(ctx, models.ActionUpdate, models.EntityRole, role.ID, fmt.Sprintf("updated role %s", role.Name))
	return role, nil
}

// Delete removes a role along with the modules that target it.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "role", "delete")
	}
	s.hooks.done(ctx, models.ActionDelete, models.EntityRole, id, "deleted role")
	return nil
}
