package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Equipment is a pool of interchangeable units owned by a lab.
// At rest 0 <= AvailableQuantity <= TotalQuantity.
type Equipment struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	LabID             uuid.UUID       `json:"lab_id" db:"lab_id"`
	Name              string          `json:"name" db:"name"`
	Category          string          `json:"category" db:"category"`
	Description       string          `json:"description" db:"description"`
	TotalQuantity     int             `json:"total_quantity" db:"total_quantity"`
	AvailableQuantity int             `json:"available_quantity" db:"available_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// CheckInvariant returns an error when the counters are out of bounds.
func (e *Equipment) CheckInvariant() error {
	if e.AvailableQuantity < 0 || e.AvailableQuantity > e.TotalQuantity {
		return fmt.Errorf("equipment %s: available %d outside [0, %d]", e.ID, e.AvailableQuantity, e.TotalQuantity)
	}
	return nil
}

// OnLoan is the number of units currently committed to open loans.
func (e *Equipment) OnLoan() int {
	return e.TotalQuantity - e.AvailableQuantity
}

// Lend takes qty units out of the available pool. It reports false and leaves
// the record untouched when fewer than qty units are available.
func (e *Equipment) Lend(qty int) bool {
	if qty <= 0 || qty > e.AvailableQuantity {
		return false
	}
	e.AvailableQuantity -= qty
	return true
}

// Unlend puts back units taken by Lend, used to undo a reservation.
func (e *Equipment) Unlend(qty int) {
	e.AvailableQuantity = clamp(e.AvailableQuantity+qty, 0, e.TotalQuantity)
}

// ApplyReturn credits the units that came back and writes off the shortfall.
// Total never drops below zero and available never exceeds the new total.
func (e *Equipment) ApplyReturn(adj ReturnAdjustment) {
	e.AvailableQuantity += adj.Returned
	if adj.WriteOff > 0 {
		e.TotalQuantity = max(e.TotalQuantity-adj.WriteOff, 0)
	}
	e.AvailableQuantity = clamp(e.AvailableQuantity, 0, e.TotalQuantity)
}

// SetTotal is the administrative edit of the total quantity. Units added by a
// raise become available at once; a cut re-clamps available to the new total.
func (e *Equipment) SetTotal(total int) {
	total = max(total, 0)
	added := max(total-e.TotalQuantity, 0)
	e.TotalQuantity = total
	e.AvailableQuantity = clamp(e.AvailableQuantity+added, 0, total)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// DTOs for requests and responses

type CreateEquipmentRequest struct {
	LabID         uuid.UUID        `json:"lab_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=120"`
	Category      string           `json:"category" validate:"required,max=80"`
	Description   string           `json:"description" validate:"max=1000"`
	TotalQuantity int              `json:"total_quantity" validate:"gte=0"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
}

type UpdateEquipmentRequest struct {
	LabID         *uuid.UUID       `json:"lab_id"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Category      *string          `json:"category" validate:"omitempty,min=1,max=80"`
	Description   *string          `json:"description" validate:"omitempty,max=1000"`
	TotalQuantity *int             `json:"total_quantity" validate:"omitempty,gte=0"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
}

// ApplyDetails copies the descriptive fields onto e. Quantity changes go
// through SetTotal.
func (r *UpdateEquipmentRequest) ApplyDetails(e *Equipment) {
	if r.LabID != nil {
		e.LabID = *r.LabID
	}
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.Category != nil {
		e.Category = *r.Category
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.UnitCost != nil {
		e.UnitCost = *r.UnitCost
	}
}

type EquipmentFilter struct {
	LabID         *uuid.UUID
	Category      string
	Search        string
	OnlyAvailable bool
	Limit         int
	Offset        int
}
