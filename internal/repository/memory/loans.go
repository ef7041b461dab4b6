package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type loanRepository struct {
	s *Store
}

func (r *loanRepository) CreateWithReservation(_ context.Context, loan *domain.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lines := append([]domain.LoanLine(nil), loan.Lines...)
	sort.Slice(lines, func(i, j int) bool { return lessID(lines[i].EquipmentID, lines[j].EquipmentID) })

	// Check every line before touching anything so a failure leaves no trace.
	reserved := make(map[uuid.UUID]domain.Equipment, len(lines))
	for _, line := range lines {
		e, ok := reserved[line.EquipmentID]
		if !ok {
			if e, ok = r.s.equipment[line.EquipmentID]; !ok {
				return apperrors.WrapEquipmentNotFound(line.EquipmentID.String())
			}
		}
		if !e.Lend(line.QuantityBorrowed) {
			return apperrors.WrapInsufficientStock(line.EquipmentID.String(), line.QuantityBorrowed, e.AvailableQuantity)
		}
		e.UpdatedAt = loan.CreatedAt
		reserved[line.EquipmentID] = e
	}
	if _, ok := r.s.users[loan.UserID]; !ok {
		return apperrors.WrapUserNotFound(loan.UserID.String())
	}
	if _, ok := r.s.labs[loan.LabID]; !ok {
		return apperrors.WrapLabNotFound(loan.LabID.String())
	}

	for id, e := range reserved {
		r.s.equipment[id] = e
	}
	r.s.loans[loan.ID] = *cloneLoan(*loan)
	return nil
}

func (r *loanRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.loans[id]
	if !ok {
		return nil, apperrors.WrapLoanNotFound(id.String())
	}
	return cloneLoan(l), nil
}

func (r *loanRepository) List(_ context.Context, filter domain.LoanFilter) ([]*domain.Loan, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	loans := []*domain.Loan{}
	for _, l := range r.s.loans {
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		if filter.LabID != nil && l.LabID != *filter.LabID {
			continue
		}
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		if filter.From != nil && l.BorrowDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.BorrowDate.After(*filter.To) {
			continue
		}
		loans = append(loans, cloneLoan(l))
	}
	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].BorrowDate.Equal(loans[j].BorrowDate) {
			return loans[i].BorrowDate.After(loans[j].BorrowDate)
		}
		return lessID(loans[i].ID, loans[j].ID)
	})
	return paginate(loans, filter.Limit, filter.Offset), len(loans), nil
}

func (r *loanRepository) ListByStatus(_ context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	loans := []*domain.Loan{}
	for _, l := range r.s.loans {
		if l.Status == status {
			loans = append(loans, cloneLoan(l))
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].DueDate.Equal(loans[j].DueDate) {
			return loans[i].DueDate.Before(loans[j].DueDate)
		}
		return lessID(loans[i].ID, loans[j].ID)
	})
	return loans, nil
}

func (r *loanRepository) CompleteReturn(_ context.Context, loan *domain.Loan, plan []domain.ReturnAdjustment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.loans[loan.ID]
	if !ok {
		return false, apperrors.WrapLoanNotFound(loan.ID.String())
	}
	if !stored.Status.IsOpen() {
		return false, nil
	}

	restocked := make(map[uuid.UUID]domain.Equipment, len(plan))
	for _, adj := range plan {
		e, ok := restocked[adj.EquipmentID]
		if !ok {
			if e, ok = r.s.equipment[adj.EquipmentID]; !ok {
				return false, apperrors.WrapEquipmentNotFound(adj.EquipmentID.String())
			}
		}
		e.ApplyReturn(adj)
		e.UpdatedAt = loan.UpdatedAt
		restocked[adj.EquipmentID] = e
	}

	for id, e := range restocked {
		r.s.equipment[id] = e
	}
	updated := cloneLoan(stored)
	updated.Status = domain.LoanStatusReturned
	updated.ActualReturnDate = loan.ActualReturnDate
	updated.ReturnNote = loan.ReturnNote
	updated.UpdatedAt = loan.UpdatedAt
	for i := range updated.Lines {
		for _, line := range loan.Lines {
			if line.EquipmentID == updated.Lines[i].EquipmentID {
				updated.Lines[i].QuantityReturned = line.QuantityReturned
			}
		}
	}
	r.s.loans[loan.ID] = *cloneLoan(*updated)
	return true, nil
}

func (r *loanRepository) MarkOverdue(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.loans[id]
	if !ok || l.Status != domain.LoanStatusActive {
		return false, nil
	}
	l.Status = domain.LoanStatusOverdue
	l.UpdatedAt = at
	r.s.loans[id] = l
	return true, nil
}

func (r *loanRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.loans[id]; !ok {
		return apperrors.WrapLoanNotFound(id.String())
	}
	delete(r.s.loans, id)
	for nid, n := range r.s.notifications {
		if n.LoanID != nil && *n.LoanID == id {
			n.LoanID = nil
			r.s.notifications[nid] = n
		}
	}
	return nil
}
