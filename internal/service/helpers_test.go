package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/reminder"
	"github.com/segyhp/lab-loan-engine/internal/repository/memory"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// testEnv wires every service to one in-memory store and a frozen clock.
type testEnv struct {
	store         *memory.Store
	now           time.Time
	lab           *domain.Lab
	otherLab      *domain.Lab
	admin         auth.Identity
	alice         auth.Identity
	bob           auth.Identity
	notifier      *Notifier
	loans         *LoanService
	sweep         *SweepService
	equipment     *EquipmentService
	labs          *LabService
	users         *UserService
	notifications *NotificationService
	auth          *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	// the memory reminder guard ages claims on the wall clock
	now := time.Now().UTC().Truncate(time.Second)
	clock := func() time.Time { return now }

	store := memory.NewStore()
	env := &testEnv{store: store, now: now}

	env.lab = &domain.Lab{ID: uuid.New(), Name: "Optics", CreatedAt: now, UpdatedAt: now}
	env.otherLab = &domain.Lab{ID: uuid.New(), Name: "Chemistry", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Labs().Create(ctx, env.lab))
	require.NoError(t, store.Labs().Create(ctx, env.otherLab))

	env.admin = env.addUser(t, "Root", "root@lab.test", domain.RoleAdmin, nil)
	env.alice = env.addUser(t, "Alice", "alice@lab.test", domain.RoleUser, &env.lab.ID)
	env.bob = env.addUser(t, "Bob", "bob@lab.test", domain.RoleUser, &env.lab.ID)

	env.notifier = NewNotifier(store.Notifications())
	env.notifier.now = clock

	env.loans = NewLoanService(store.Loans(), store.Equipment(), store.Labs(), store.Users(), env.notifier, discard)
	env.loans.now = clock

	env.sweep = NewSweepService(store.Loans(), store.Equipment(), env.notifier, reminder.NewMemoryGuard(), 2, discard)
	env.sweep.now = clock

	env.equipment = NewEquipmentService(store.Equipment(), store.Labs())
	env.equipment.now = clock

	env.labs = NewLabService(store.Labs())
	env.labs.now = clock

	env.users = NewUserService(store.Users())
	env.users.now = clock

	env.notifications = NewNotificationService(store.Notifications())

	env.auth = NewAuthService(store.Users(), store.Labs(), auth.NewTokenIssuer("test-secret", time.Hour), discard)
	env.auth.now = clock

	return env
}

func (e *testEnv) addUser(t *testing.T, name, email string, role domain.Role, labID *uuid.UUID) auth.Identity {
	t.Helper()
	u := &domain.User{
		ID: uuid.New(), Name: name, Email: email, PasswordHash: "-", Role: role,
		LabID: labID, CreatedAt: e.now, UpdatedAt: e.now,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return auth.Identity{UserID: u.ID, Role: role, LabID: labID}
}

func (e *testEnv) addEquipment(t *testing.T, name string, total int, unitCost int64) *domain.Equipment {
	t.Helper()
	cost := decimal.NewFromInt(unitCost)
	eq, err := e.equipment.Create(context.Background(), e.admin, &domain.CreateEquipmentRequest{
		LabID:         e.lab.ID,
		Name:          name,
		Category:      "general",
		TotalQuantity: total,
		UnitCost:      &cost,
	})
	require.NoError(t, err)
	return eq
}

func (e *testEnv) reload(t *testing.T, id uuid.UUID) *domain.Equipment {
	t.Helper()
	eq, err := e.store.Equipment().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, eq.CheckInvariant())
	return eq
}

func (e *testEnv) borrow(t *testing.T, who auth.Identity, due time.Duration, lines ...domain.LoanLineRequest) *domain.Loan {
	t.Helper()
	loan, err := e.loans.Create(context.Background(), who, e.loanRequest(due, lines...))
	require.NoError(t, err)
	return loan
}

func (e *testEnv) loanRequest(due time.Duration, lines ...domain.LoanLineRequest) *domain.CreateLoanRequest {
	return &domain.CreateLoanRequest{
		LabID:       e.lab.ID,
		Beneficiary: domain.Beneficiary{Name: "Student", Email: "student@lab.test"},
		Lines:       lines,
		DueDate:     e.now.Add(due),
	}
}

func line(id uuid.UUID, qty int) domain.LoanLineRequest {
	return domain.LoanLineRequest{EquipmentID: id, Quantity: qty}
}

func intPtr(v int) *int { return &v }
