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

type branchRepository interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.Branch]]
	FindByID(ctx context.Context, id string) query.Result[*models.Branch]
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	Delete(ctx context.Context, id string) error
}

// BranchService manages branches.
type BranchService struct {
	repo      branchRepository
	validator *validator.Validate
	hooks     mutations
}

// NewBranchService constructs a BranchService.
func NewBranchService(repo branchRepository, logs actionRecorder, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *BranchService {
	return &BranchService{
		repo:      repo,
		validator: newValidator(validate),
		hooks:     mutations{logs: logs, cache: cache, logger: nopIfNil(logger)},
	}
}

// List returns a page of branches.
func (s *BranchService) List(ctx context.Context, params query.Params) query.Result[query.Page[models.Branch]] {
	return s.repo.List(ctx, params)
}

// Get returns one branch, or nil data when it does not exist.
func (s *BranchService) Get(ctx context.Context, id string) query.Result[*models.Branch] {
	return s.repo.FindByID(ctx, id)
}

// Create validates and stores a new branch.
func (s *BranchService) Create(ctx context.Context, req models.BranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid branch payload")
	}
	branch := &models.Branch{Name: req.Name, City: req.City, Address: req.Address, Phone: req.Phone}
	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, writeError(err, "branch", "create")
	}
	s.hooks.done(ctx, models.ActionCreate, models.EntityBranch, branch.ID, fmt.Sprintf("created branch %s", branch.Name))
	return branch, nil
}

// Update replaces the mutable fields of a branch.
func (s *BranchService) Update(ctx context.Context, id string, req models.BranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid branch payload")
	}
	branch, err := existing(s.repo.FindByID(ctx, id), "branch")
	if err != nil {
		return nil, err
	}
	branch.Name, branch.City, branch.Address, branch.Phone = req.Name, req.City, req.Address, req.Phone
	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, writeError(err, "branch", "update")
	}
	s.hooks.done(ctx, models.ActionUpdate, models.EntityBranch, branch.ID, fmt.Sprintf("updated branch %s", branch.Name))
	return branch, nil
}

// Delete removes a branch. Users of the branch keep their account with no branch.
func (s *BranchService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "branch", "delete")
	}
	s.hooks.done(ctx, models.ActionDelete, models.EntityBranch, id, "deleted branch")
	return nil
}
