package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/repository"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
	"github.com/segyhp/lab-loan-engine/pkg/utils"
)

type UserService struct {
	UserRepo repository.UserRepository
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo, now: time.Now}
}

// Create adds an account with any role; registration only creates users.
func (s *UserService) Create(ctx context.Context, id auth.Identity, req *domain.CreateUserRequest) (*domain.User, error) {
	if err := auth.Authorize(id, auth.ResourceUser, auth.ActionCreate); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, customError.ValidationField("role", "must be admin or user")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, customError.NewBusinessError(customError.KindInternal, customError.ErrCodeInternal, "could not hash password", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        utils.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		LabID:        req.LabID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id auth.Identity, userID uuid.UUID) (*domain.User, error) {
	if err := auth.Authorize(id, auth.ResourceUser, auth.ActionRead); err != nil {
		return nil, err
	}
	if !id.IsAdmin() && !id.Owns(userID) {
		return nil, customError.WrapForbidden("you can only access your own account")
	}
	return s.UserRepo.GetByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context, id auth.Identity, filter domain.UserFilter) ([]*domain.User, int, error) {
	if err := auth.Authorize(id, auth.ResourceUser, auth.ActionList); err != nil {
		return nil, 0, err
	}
	return s.UserRepo.List(ctx, filter)
}

// Update lets users edit their own name, email and password. Role and lab
// assignment changes are reserved to administrators.
func (s *UserService) Update(ctx context.Context, id auth.Identity, userID uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error) {
	if err := auth.Authorize(id, auth.ResourceUser, auth.ActionUpdate); err != nil {
		return nil, err
	}
	if !id.IsAdmin() {
		if !id.Owns(userID) {
			return nil, customError.WrapForbidden("you can only update your own account")
		}
		if req.Role != nil || req.LabID != nil {
			return nil, customError.WrapForbidden("only administrators can change roles or lab assignments")
		}
	}

	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = utils.NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, customError.NewBusinessError(customError.KindInternal, customError.ErrCodeInternal, "could not hash password", err)
		}
		user.PasswordHash = hash
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, customError.ValidationField("role", "must be admin or user")
		}
		user.Role = *req.Role
	}
	if req.LabID != nil {
		labID := *req.LabID
		user.LabID = &labID
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id auth.Identity, userID uuid.UUID) error {
	if err := auth.Authorize(id, auth.ResourceUser, auth.ActionDelete); err != nil {
		return err
	}
	if id.Owns(userID) {
		return customError.ValidationField("id", "you cannot delete your own account")
	}
	return s.UserRepo.Delete(ctx, userID)
}
