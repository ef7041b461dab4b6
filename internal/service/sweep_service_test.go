package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/mocks"
	"github.com/segyhp/lab-loan-engine/internal/reminder"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
)

func (e *testEnv) advance(d time.Duration) {
	later := e.now.Add(d)
	e.sweep.now = func() time.Time { return later }
}

func TestSweepService_MarksOverdueAndNotifiesPerLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := env.addEquipment(t, "Microscope", 5, 0)
	lens := env.addEquipment(t, "Lens kit", 5, 0)

	late := env.borrow(t, env.alice, time.Hour, line(scope.ID, 1), line(lens.ID, 2))
	onTime := env.borrow(t, env.bob, 10*24*time.Hour, line(scope.ID, 1))

	env.advance(2 * time.Hour)
	result, err := env.sweep.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.MarkedOverdue)
	assert.Equal(t, 0, result.Reminders)
	assert.Equal(t, 0, result.Failures)

	got, err := env.loans.Get(ctx, env.admin, late.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusOverdue, got.Status)

	got, err = env.loans.Get(ctx, env.admin, onTime.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusActive, got.Status)

	items, total, err := env.notifications.List(ctx, env.alice, domain.NotificationFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	var messages []string
	for _, n := range items {
		assert.Equal(t, domain.NotificationOverdue, n.Kind)
		require.NotNil(t, n.LoanID)
		assert.Equal(t, late.ID, *n.LoanID)
		messages = append(messages, n.Message)
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "1 x Microscope")
	assert.Contains(t, joined, "2 x Lens kit")

	// equipment stays out while the loan is overdue
	assert.Equal(t, 3, env.reload(t, scope.ID).AvailableQuantity)
}

func TestSweepService_RerunDoesNotRepeatTransition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := env.addEquipment(t, "Microscope", 5, 0)
	env.borrow(t, env.alice, time.Hour, line(scope.ID, 1))

	env.advance(2 * time.Hour)
	first, err := env.sweep.Run(ctx)
	require.NoError(t, err)
	second, err := env.sweep.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, first.MarkedOverdue)
	assert.Equal(t, 0, second.Scanned, "overdue loans are no longer swept")
	assert.Equal(t, 0, second.MarkedOverdue)

	count, err := env.notifications.UnreadCount(ctx, env.alice)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSweepService_OverdueLoanCanStillBeReturned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := env.addEquipment(t, "Microscope", 5, 0)
	loan := env.borrow(t, env.alice, time.Hour, line(scope.ID, 2))

	env.advance(2 * time.Hour)
	_, err := env.sweep.Run(ctx)
	require.NoError(t, err)

	returned, err := env.loans.Return(ctx, env.alice, loan.ID, &domain.ReturnLoanRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusReturned, returned.Status)
	assert.Equal(t, 5, env.reload(t, scope.ID).AvailableQuantity)
}

func TestSweepService_RemindsOnceWithinWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := env.addEquipment(t, "Microscope", 5, 0)

	soon := env.borrow(t, env.alice, 36*time.Hour, line(scope.ID, 1))
	env.borrow(t, env.bob, 5*24*time.Hour, line(scope.ID, 1))

	first, err := env.sweep.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Reminders)
	assert.Equal(t, 0, first.MarkedOverdue)

	second, err := env.sweep.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Reminders)
	assert.Equal(t, 1, second.SkippedReminders)

	items, _, err := env.notifications.List(ctx, env.alice, domain.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.NotificationReminder, items[0].Kind)
	assert.Equal(t, soon.ID, *items[0].LoanID)
	assert.Contains(t, items[0].Message, "due in 2 day(s)")

	count, err := env.notifications.UnreadCount(ctx, env.bob)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "loans outside the window get no reminder")
}

func TestSweepService_RemindsEveryRunWithoutGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.sweep.guard = reminder.Always{}
	scope := env.addEquipment(t, "Microscope", 5, 0)
	env.borrow(t, env.alice, 24*time.Hour, line(scope.ID, 1))

	for i := 0; i < 3; i++ {
		result, err := env.sweep.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Reminders)
	}

	count, err := env.notifications.UnreadCount(ctx, env.alice)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSweepService_TriggerRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sweep.Trigger(context.Background(), env.alice)
	assert.True(t, errors.Is(err, customError.ErrForbidden))

	result, err := env.sweep.Trigger(context.Background(), env.admin)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
}

func TestSweepService_NotificationFailureDoesNotAbort(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockEquipmentRepo := &mocks.MockEquipmentRepository{}
	mockNotificationRepo := &mocks.MockNotificationRepository{}
	mockGuard := &mocks.MockReminderGuard{}

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	scope := uuid.New()
	late := &domain.Loan{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  domain.LoanStatusActive,
		DueDate: now.Add(-time.Hour),
		Lines: []domain.LoanLine{
			{EquipmentID: scope, QuantityBorrowed: 1},
			{EquipmentID: uuid.New(), QuantityBorrowed: 1},
		},
	}
	soon := &domain.Loan{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  domain.LoanStatusActive,
		DueDate: now.Add(12 * time.Hour),
		Lines:   []domain.LoanLine{{EquipmentID: scope, QuantityBorrowed: 1}},
	}
	broken := &domain.Loan{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  domain.LoanStatusActive,
		DueDate: now.Add(-2 * time.Hour),
		Lines:   []domain.LoanLine{{EquipmentID: scope, QuantityBorrowed: 1}},
	}

	mockLoanRepo.On("ListByStatus", mock.Anything, domain.LoanStatusActive).Return([]*domain.Loan{late, broken, soon}, nil)
	mockLoanRepo.On("MarkOverdue", mock.Anything, late.ID, now).Return(true, nil)
	mockLoanRepo.On("MarkOverdue", mock.Anything, broken.ID, now).Return(false, errors.New("connection reset"))
	mockEquipmentRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*domain.Equipment{
		scope: {ID: scope, Name: "Microscope"},
	}, nil)
	mockGuard.On("Claim", mock.Anything, soon.ID, soon.DueDate).Return(false, errors.New("redis down"))
	mockGuard.On("Release", mock.Anything, soon.ID, soon.DueDate).Return(errors.New("redis down"))
	mockNotificationRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := NewSweepService(mockLoanRepo, mockEquipmentRepo, NewNotifier(mockNotificationRepo), mockGuard, 2, discard)
	svc.now = func() time.Time { return now }

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 1, result.MarkedOverdue)
	assert.Equal(t, 1, result.Failures)
	assert.Equal(t, 0, result.Reminders)
	// two overdue lines plus the reminder sent despite the guard error
	assert.Equal(t, 3, result.NotificationErrors)

	mockLoanRepo.AssertExpectations(t)
	mockGuard.AssertExpectations(t)
	mockNotificationRepo.AssertNumberOfCalls(t, "Create", 3)
}

func TestSweepService_FailedReminderIsRetried(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockNotificationRepo := &mocks.MockNotificationRepository{}

	now := time.Now()
	soon := &domain.Loan{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  domain.LoanStatusActive,
		DueDate: now.Add(12 * time.Hour),
		Lines:   []domain.LoanLine{{EquipmentID: uuid.New(), QuantityBorrowed: 1}},
	}

	mockLoanRepo.On("ListByStatus", mock.Anything, domain.LoanStatusActive).Return([]*domain.Loan{soon}, nil)
	mockNotificationRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	mockNotificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewSweepService(mockLoanRepo, nil, NewNotifier(mockNotificationRepo), reminder.NewMemoryGuard(), 2, discard)
	svc.now = func() time.Time { return now }

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, first.Reminders)
	assert.Equal(t, 1, first.NotificationErrors)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Reminders)
	assert.Equal(t, 0, second.SkippedReminders)

	third, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, third.Reminders)
	assert.Equal(t, 1, third.SkippedReminders)

	mockNotificationRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestSweepService_ListFailureAborts(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockLoanRepo.On("ListByStatus", mock.Anything, domain.LoanStatusActive).
		Return(nil, customError.WrapDatabaseError(errors.New("timeout")))

	svc := NewSweepService(mockLoanRepo, nil, nil, reminder.Always{}, 2, discard)

	result, err := svc.Run(context.Background())
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, customError.ErrInternal))
}
