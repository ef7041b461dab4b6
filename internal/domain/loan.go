package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
)

// IsOpen reports whether the loan still holds equipment.
func (s LoanStatus) IsOpen() bool {
	return s == LoanStatusActive || s == LoanStatusOverdue
}

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusActive, LoanStatusReturned, LoanStatusOverdue:
		return true
	}
	return false
}

// Beneficiary is the person who physically holds the equipment.
type Beneficiary struct {
	Name     string `json:"name" db:"beneficiary_name" validate:"required,max=120"`
	Email    string `json:"email" db:"beneficiary_email" validate:"required,email"`
	Document string `json:"document,omitempty" db:"beneficiary_document" validate:"max=40"`
}

// Loan represents a loan entity
type Loan struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	LabID            uuid.UUID  `json:"lab_id" db:"lab_id"`
	Beneficiary      `json:"beneficiary"`
	Status           LoanStatus `json:"status" db:"status"`
	BorrowDate       time.Time  `json:"borrow_date" db:"borrow_date"`
	DueDate          time.Time  `json:"due_date" db:"due_date"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty" db:"actual_return_date"`
	ReturnNote       string     `json:"return_note,omitempty" db:"return_note"`
	Lines            []LoanLine `json:"lines" db:"-"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// LoanLine is one equipment commitment inside a loan.
type LoanLine struct {
	LoanID           uuid.UUID `json:"-" db:"loan_id"`
	EquipmentID      uuid.UUID `json:"equipment_id" db:"equipment_id"`
	QuantityBorrowed int       `json:"quantity_borrowed" db:"quantity_borrowed"`
	QuantityReturned *int      `json:"quantity_returned,omitempty" db:"quantity_returned"`
}

// ReturnedLine is what the requester says came back for one equipment id.
type ReturnedLine struct {
	EquipmentID uuid.UUID
	Quantity    int
}

// ReturnAdjustment is the counter change a return applies to one equipment record.
type ReturnAdjustment struct {
	EquipmentID uuid.UUID
	Returned    int
	WriteOff    int
}

// ReturnLineError describes a returned-list entry that cannot be reconciled.
type ReturnLineError struct {
	EquipmentID uuid.UUID
	Reason      string
}

func (e *ReturnLineError) Error() string {
	return fmt.Sprintf("equipment %s: %s", e.EquipmentID, e.Reason)
}

// PlanReturn reconciles the returned quantities against the committed lines.
// Lines absent from returned are treated as fully returned. Entries for
// equipment not on the loan, duplicates, negative quantities and quantities
// above what was borrowed are rejected.
func PlanReturn(lines []LoanLine, returned []ReturnedLine) ([]ReturnAdjustment, error) {
	committed := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		committed[l.EquipmentID] += l.QuantityBorrowed
	}

	given := make(map[uuid.UUID]int, len(returned))
	for _, r := range returned {
		c, ok := committed[r.EquipmentID]
		switch {
		case !ok:
			return nil, &ReturnLineError{EquipmentID: r.EquipmentID, Reason: "not part of this loan"}
		case r.Quantity < 0:
			return nil, &ReturnLineError{EquipmentID: r.EquipmentID, Reason: "returned quantity cannot be negative"}
		case r.Quantity > c:
			return nil, &ReturnLineError{
				EquipmentID: r.EquipmentID,
				Reason:      fmt.Sprintf("returned quantity %d exceeds borrowed %d", r.Quantity, c),
			}
		}
		if _, dup := given[r.EquipmentID]; dup {
			return nil, &ReturnLineError{EquipmentID: r.EquipmentID, Reason: "listed more than once"}
		}
		given[r.EquipmentID] = r.Quantity
	}

	plan := make([]ReturnAdjustment, 0, len(lines))
	for _, l := range lines {
		back, ok := given[l.EquipmentID]
		if !ok {
			back = l.QuantityBorrowed
		}
		plan = append(plan, ReturnAdjustment{
			EquipmentID: l.EquipmentID,
			Returned:    back,
			WriteOff:    l.QuantityBorrowed - back,
		})
	}
	return plan, nil
}

// ApplyReturnPlan stamps the per-line returned quantities onto the loan.
func (l *Loan) ApplyReturnPlan(plan []ReturnAdjustment, note string, at time.Time) {
	byEquipment := make(map[uuid.UUID]int, len(plan))
	for _, adj := range plan {
		byEquipment[adj.EquipmentID] = adj.Returned
	}
	for i := range l.Lines {
		q := byEquipment[l.Lines[i].EquipmentID]
		l.Lines[i].QuantityReturned = &q
	}
	l.Status = LoanStatusReturned
	l.ActualReturnDate = &at
	l.ReturnNote = note
	l.UpdatedAt = at
}

// WrittenOff is the number of units of line that never came back.
func (l LoanLine) WrittenOff() int {
	if l.QuantityReturned == nil {
		return 0
	}
	return max(l.QuantityBorrowed-*l.QuantityReturned, 0)
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	UserID      *uuid.UUID        `json:"user_id"`
	LabID       uuid.UUID         `json:"lab_id" validate:"required"`
	Beneficiary Beneficiary       `json:"beneficiary"`
	Lines       []LoanLineRequest `json:"lines" validate:"required,min=1,dive"`
	DueDate     time.Time         `json:"due_date" validate:"required"`
}

type LoanLineRequest struct {
	EquipmentID uuid.UUID `json:"equipment_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

type ReturnLoanRequest struct {
	Lines []ReturnLineRequest `json:"lines" validate:"omitempty,dive"`
	Note  string              `json:"note" validate:"max=1000"`
}

type ReturnLineRequest struct {
	EquipmentID uuid.UUID `json:"equipment_id" validate:"required"`
	Quantity    *int      `json:"quantity" validate:"required,gte=0"`
}

// ReturnedLines converts the request lines for PlanReturn.
func (r *ReturnLoanRequest) ReturnedLines() []ReturnedLine {
	out := make([]ReturnedLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		q := 0
		if l.Quantity != nil {
			q = *l.Quantity
		}
		out = append(out, ReturnedLine{EquipmentID: l.EquipmentID, Quantity: q})
	}
	return out
}

type LoanFilter struct {
	Status *LoanStatus
	LabID  *uuid.UUID
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
