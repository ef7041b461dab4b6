package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
)

// The interfaces below are what the HTTP handlers depend on.

type AuthServiceInterface interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Me(ctx context.Context, id auth.Identity) (*domain.User, error)
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

type LabServiceInterface interface {
	Create(ctx context.Context, id auth.Identity, req *domain.CreateLabRequest) (*domain.Lab, error)
	Get(ctx context.Context, id auth.Identity, labID uuid.UUID) (*domain.Lab, error)
	List(ctx context.Context, id auth.Identity) ([]*domain.Lab, error)
	Update(ctx context.Context, id auth.Identity, labID uuid.UUID, req *domain.UpdateLabRequest) (*domain.Lab, error)
	Delete(ctx context.Context, id auth.Identity, labID uuid.UUID) error
}

type EquipmentServiceInterface interface {
	Create(ctx context.Context, id auth.Identity, req *domain.CreateEquipmentRequest) (*domain.Equipment, error)
	Get(ctx context.Context, id auth.Identity, equipmentID uuid.UUID) (*domain.Equipment, error)
	List(ctx context.Context, id auth.Identity, filter domain.EquipmentFilter) ([]*domain.Equipment, int, error)
	Update(ctx context.Context, id auth.Identity, equipmentID uuid.UUID, req *domain.UpdateEquipmentRequest) (*domain.Equipment, error)
	Delete(ctx context.Context, id auth.Identity, equipmentID uuid.UUID) error
}

type LoanServiceInterface interface {
	Create(ctx context.Context, id auth.Identity, req *domain.CreateLoanRequest) (*domain.Loan, error)
	Get(ctx context.Context, id auth.Identity, loanID uuid.UUID) (*domain.Loan, error)
	List(ctx context.Context, id auth.Identity, filter domain.LoanFilter) ([]*domain.Loan, int, error)
	Return(ctx context.Context, id auth.Identity, loanID uuid.UUID, req *domain.ReturnLoanRequest) (*domain.Loan, error)
	Delete(ctx context.Context, id auth.Identity, loanID uuid.UUID) error
	Report(ctx context.Context, id auth.Identity, filter domain.ReportFilter) (*domain.LoanReport, error)
}

type SweepServiceInterface interface {
	Trigger(ctx context.Context, id auth.Identity) (*SweepResult, error)
}

type UserServiceInterface interface {
	Create(ctx context.Context, id auth.Identity, req *domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, id auth.Identity, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, id auth.Identity, filter domain.UserFilter) ([]*domain.User, int, error)
	Update(ctx context.Context, id auth.Identity, userID uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id auth.Identity, userID uuid.UUID) error
}

type NotificationServiceInterface interface {
	List(ctx context.Context, id auth.Identity, filter domain.NotificationFilter) ([]*domain.Notification, int, error)
	UnreadCount(ctx context.Context, id auth.Identity) (int, error)
	MarkRead(ctx context.Context, id auth.Identity, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, id auth.Identity) (int, error)
	Delete(ctx context.Context, id auth.Identity, notificationID uuid.UUID) error
}

var (
	_ AuthServiceInterface         = (*AuthService)(nil)
	_ LabServiceInterface          = (*LabService)(nil)
	_ EquipmentServiceInterface    = (*EquipmentService)(nil)
	_ LoanServiceInterface         = (*LoanService)(nil)
	_ SweepServiceInterface        = (*SweepService)(nil)
	_ UserServiceInterface         = (*UserService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
)
