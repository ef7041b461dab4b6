package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
)

// Implementations report missing rows, uniqueness clashes, references that
// block a delete and stock shortfalls as *errors.BusinessError values, and
// wrap any other storage failure with errors.WrapDatabaseError.

// LabRepository defines the interface for lab data operations
type LabRepository interface {
	// Create creates a new lab; the name must be unique
	Create(ctx context.Context, lab *domain.Lab) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lab, error)

	// List returns every lab ordered by name
	List(ctx context.Context) ([]*domain.Lab, error)

	Update(ctx context.Context, lab *domain.Lab) error

	// Delete removes a lab that no equipment or loan refers to
	Delete(ctx context.Context, id uuid.UUID) error
}

// EquipmentRepository defines the interface for equipment data operations
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Equipment, error)

	// GetByIDs returns the records that exist among ids, keyed by id
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Equipment, error)

	List(ctx context.Context, filter domain.EquipmentFilter) ([]*domain.Equipment, int, error)

	// Update writes the descriptive fields and, when total is not nil, the new
	// total quantity as one atomic change. Raising the total makes the added
	// units available; cutting it clamps available to the new total. The
	// stored record is returned.
	Update(ctx context.Context, equipment *domain.Equipment, total *int) (*domain.Equipment, error)

	// Delete removes equipment that no loan line refers to
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// CreateWithReservation inserts the loan and its lines and decrements the
	// availability of every line's equipment in one atomic unit. A line that
	// cannot be covered fails the whole operation and nothing is written.
	CreateWithReservation(ctx context.Context, loan *domain.Loan) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, int, error)

	// ListByStatus returns every loan in status, lines included
	ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error)

	// CompleteReturn moves an open loan to returned, records per-line returned
	// quantities and applies plan to the equipment counters, atomically. It
	// reports false without writing anything when the loan is no longer open.
	CompleteReturn(ctx context.Context, loan *domain.Loan, plan []domain.ReturnAdjustment) (bool, error)

	// MarkOverdue moves a loan from active to overdue. It reports false when
	// the loan was not active anymore.
	MarkOverdue(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user; the email must be unique
	Create(ctx context.Context, user *domain.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int, error)

	Update(ctx context.Context, user *domain.User) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error

	ListByUser(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter) ([]*domain.Notification, int, error)

	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)

	// MarkRead marks one of the user's notifications as read
	MarkRead(ctx context.Context, id, userID uuid.UUID) error

	// MarkAllRead returns how many notifications changed
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)

	Delete(ctx context.Context, id, userID uuid.UUID) error
}
