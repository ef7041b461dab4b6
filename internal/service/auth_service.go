package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/repository"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
	"github.com/segyhp/lab-loan-engine/pkg/utils"
)

type AuthService struct {
	UserRepo repository.UserRepository
	LabRepo  repository.LabRepository
	tokens   *auth.TokenIssuer
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, labRepo repository.LabRepository, tokens *auth.TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		LabRepo:  labRepo,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an ordinary user account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	if req.LabID != nil {
		if _, err := s.LabRepo.GetByID(ctx, *req.LabID); err != nil {
			return nil, err
		}
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
		Role:         domain.RoleUser,
		LabID:        req.LabID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login answers Unauthorized for an unknown email and a wrong password alike.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.UserRepo.GetByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, customError.ErrNotFound) {
			return nil, customError.WrapUnauthorized("invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, customError.WrapUnauthorized("invalid email or password")
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, id auth.Identity) (*domain.User, error) {
	user, err := s.UserRepo.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, customError.ErrNotFound) {
			return nil, customError.WrapUnauthorized("account no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies token and rebuilds the identity from the stored
// account, so role and lab changes apply to tokens already issued and a
// deleted account is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	claimed, err := s.tokens.Verify(token)
	if err != nil {
		return auth.Identity{}, err
	}

	user, err := s.UserRepo.GetByID(ctx, claimed.UserID)
	if err != nil {
		if errors.Is(err, customError.ErrNotFound) {
			return auth.Identity{}, customError.WrapUnauthorized("account no longer exists")
		}
		return auth.Identity{}, err
	}
	return auth.Identity{UserID: user.ID, Role: user.Role, LabID: user.LabID}, nil
}

// SeedAdmin makes sure an administrator account exists for email. An
// existing account is left untouched.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = utils.NormalizeEmail(email)

	existing, err := s.UserRepo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("seed admin email belongs to a non-admin account", "email", email)
		}
		return nil
	}
	if !errors.Is(err, customError.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	admin := &domain.User{
		ID:           uuid.New(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.UserRepo.Create(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("administrator account created", "email", email)
	return nil
}

func (s *AuthService) issue(user *domain.User) (*domain.AuthResponse, error) {
	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, customError.NewBusinessError(customError.KindInternal, customError.ErrCodeInternal, "could not issue token", err)
	}
	return &domain.AuthResponse{Token: token, ExpiresAt: expires, User: user}, nil
}
