package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, id auth.Identity) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.Identity), args.Error(1)
}

type MockLabService struct {
	mock.Mock
}

func (m *MockLabService) Create(ctx context.Context, id auth.Identity, req *domain.CreateLabRequest) (*domain.Lab, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lab), args.Error(1)
}

func (m *MockLabService) Get(ctx context.Context, id auth.Identity, labID uuid.UUID) (*domain.Lab, error) {
	args := m.Called(ctx, id, labID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lab), args.Error(1)
}

func (m *MockLabService) List(ctx context.Context, id auth.Identity) ([]*domain.Lab, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Lab), args.Error(1)
}

func (m *MockLabService) Update(ctx context.Context, id auth.Identity, labID uuid.UUID, req *domain.UpdateLabRequest) (*domain.Lab, error) {
	args := m.Called(ctx, id, labID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lab), args.Error(1)
}

func (m *MockLabService) Delete(ctx context.Context, id auth.Identity, labID uuid.UUID) error {
	args := m.Called(ctx, id, labID)
	return args.Error(0)
}

type MockEquipmentService struct {
	mock.Mock
}

func (m *MockEquipmentService) Create(ctx context.Context, id auth.Identity, req *domain.CreateEquipmentRequest) (*domain.Equipment, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentService) Get(ctx context.Context, id auth.Identity, equipmentID uuid.UUID) (*domain.Equipment, error) {
	args := m.Called(ctx, id, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentService) List(ctx context.Context, id auth.Identity, filter domain.EquipmentFilter) ([]*domain.Equipment, int, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Equipment), args.Int(1), args.Error(2)
}

func (m *MockEquipmentService) Update(ctx context.Context, id auth.Identity, equipmentID uuid.UUID, req *domain.UpdateEquipmentRequest) (*domain.Equipment, error) {
	args := m.Called(ctx, id, equipmentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentService) Delete(ctx context.Context, id auth.Identity, equipmentID uuid.UUID) error {
	args := m.Called(ctx, id, equipmentID)
	return args.Error(0)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Create(ctx context.Context, id auth.Identity, req *domain.CreateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) Get(ctx context.Context, id auth.Identity, loanID uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) List(ctx context.Context, id auth.Identity, filter domain.LoanFilter) ([]*domain.Loan, int, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Loan), args.Int(1), args.Error(2)
}

func (m *MockLoanService) Return(ctx context.Context, id auth.Identity, loanID uuid.UUID, req *domain.ReturnLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, id, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) Delete(ctx context.Context, id auth.Identity, loanID uuid.UUID) error {
	args := m.Called(ctx, id, loanID)
	return args.Error(0)
}

func (m *MockLoanService) Report(ctx context.Context, id auth.Identity, filter domain.ReportFilter) (*domain.LoanReport, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanReport), args.Error(1)
}

type MockSweepService struct {
	mock.Mock
}

func (m *MockSweepService) Trigger(ctx context.Context, id auth.Identity) (*service.SweepResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepResult), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, id auth.Identity, req *domain.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id auth.Identity, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, id auth.Identity, filter domain.UserFilter) ([]*domain.User, int, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.Int(1), args.Error(2)
}

func (m *MockUserService) Update(ctx context.Context, id auth.Identity, userID uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id auth.Identity, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, id auth.Identity, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Notification), args.Int(1), args.Error(2)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, id auth.Identity) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id auth.Identity, notificationID uuid.UUID) error {
	args := m.Called(ctx, id, notificationID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, id auth.Identity) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) Delete(ctx context.Context, id auth.Identity, notificationID uuid.UUID) error {
	args := m.Called(ctx, id, notificationID)
	return args.Error(0)
}
