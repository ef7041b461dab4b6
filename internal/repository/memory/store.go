// Package memory is an in-process storage driver behind the repository
// interfaces. Every repository built from one Store shares a single mutex, so
// multi-record mutations are as atomic as their SQL counterparts.
package memory

import (
	"bytes"
	"sync"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/repository"
)

// Store keeps every record in maps keyed by id.
type Store struct {
	mu            sync.Mutex
	labs          map[uuid.UUID]domain.Lab
	users         map[uuid.UUID]domain.User
	equipment     map[uuid.UUID]domain.Equipment
	loans         map[uuid.UUID]domain.Loan
	notifications map[uuid.UUID]domain.Notification
}

func NewStore() *Store {
	return &Store{
		labs:          make(map[uuid.UUID]domain.Lab),
		users:         make(map[uuid.UUID]domain.User),
		equipment:     make(map[uuid.UUID]domain.Equipment),
		loans:         make(map[uuid.UUID]domain.Loan),
		notifications: make(map[uuid.UUID]domain.Notification),
	}
}

func (s *Store) Labs() repository.LabRepository { return &labRepository{s: s} }

func (s *Store) Equipment() repository.EquipmentRepository { return &equipmentRepository{s: s} }

func (s *Store) Loans() repository.LoanRepository { return &loanRepository{s: s} }

func (s *Store) Users() repository.UserRepository { return &userRepository{s: s} }

func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{s: s}
}

func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// paginate mirrors LIMIT/OFFSET: a non-positive limit returns everything.
func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		return items
	}
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneLoan(l domain.Loan) *domain.Loan {
	out := l
	if l.ActualReturnDate != nil {
		at := *l.ActualReturnDate
		out.ActualReturnDate = &at
	}
	out.Lines = make([]domain.LoanLine, len(l.Lines))
	for i, line := range l.Lines {
		out.Lines[i] = line
		if line.QuantityReturned != nil {
			q := *line.QuantityReturned
			out.Lines[i].QuantityReturned = &q
		}
	}
	return &out
}

func cloneUser(u domain.User) *domain.User {
	out := u
	out.LabID = copyUUID(u.LabID)
	return &out
}

func cloneNotification(n domain.Notification) *domain.Notification {
	out := n
	out.LoanID = copyUUID(n.LoanID)
	return &out
}
