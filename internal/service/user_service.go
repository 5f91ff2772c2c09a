package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/internal/session"
	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.User]]
	FindByID(ctx context.Context, id string) query.Result[*models.User]
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// UserService handles staff and admin account management.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	hooks     mutations
	cost      int
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, logs actionRecorder, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *UserService {
	return &UserService{
		repo:      repo,
		validator: newValidator(validate),
		hooks:     mutations{logs: logs, cache: cache, logger: nopIfNil(logger)},
		cost:      bcrypt.DefaultCost,
	}
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, params query.Params) query.Result[query.Page[models.User]] {
	return s.repo.List(ctx, params)
}

// Get returns a user by ID, or nil data when it does not exist.
func (s *UserService) Get(ctx context.Context, id string) query.Result[*models.User] {
	return s.repo.FindByID(ctx, id)
}

// Create registers a new account. Emails are unique regardless of case.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid create user payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
	} else if !isNoRows(err) {
		return nil, appErrors.Internal(err, "failed to check email uniqueness")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Type:         req.Type,
		BranchID:     blankToNil(req.BranchID),
		RoleID:       blankToNil(req.RoleID),
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, writeError(err, "user", "create")
	}
	s.hooks.done(ctx, models.ActionCreate, models.EntityUser, user.ID, fmt.Sprintf("created %s account %s", strings.ToLower(string(user.Type)), user.Email))
	return user, nil
}

// Update applies the fields present in req.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid update user payload")
	}
	user, err := existing(s.repo.FindByID(ctx, id), "user")
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Type != nil {
		user.Type = *req.Type
	}
	if req.BranchID != nil {
		user.BranchID = blankToNil(req.BranchID)
	}
	if req.RoleID != nil {
		user.RoleID = blankToNil(req.RoleID)
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cost)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, writeError(err, "user", "update")
	}
	s.hooks.done(ctx, models.ActionUpdate, models.EntityUser, user.ID, fmt.Sprintf("updated account %s", user.Email))
	return user, nil
}

// Delete deactivates an account. Admins cannot deactivate themselves.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if actor := session.UserID(ctx); actor != nil && *actor == id {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot deactivate your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "user", "delete")
	}
	s.hooks.done(ctx, models.ActionDelete, models.EntityUser, id, "deactivated account")
	return nil
}

func blankToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
