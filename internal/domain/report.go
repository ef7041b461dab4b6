package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReportFilter struct {
	LabID *uuid.UUID
	From  *time.Time
	To    *time.Time
}

// EquipmentWriteOff aggregates units lost on partial returns for one record.
type EquipmentWriteOff struct {
	EquipmentID uuid.UUID       `json:"equipment_id"`
	Name        string          `json:"name"`
	Units       int             `json:"units"`
	Value       decimal.Decimal `json:"value"`
}

// LoanReport summarizes loan activity over a lab and period.
type LoanReport struct {
	LabID           *uuid.UUID          `json:"lab_id,omitempty"`
	From            *time.Time          `json:"from,omitempty"`
	To              *time.Time          `json:"to,omitempty"`
	TotalLoans      int                 `json:"total_loans"`
	ByStatus        map[LoanStatus]int  `json:"by_status"`
	UnitsOnLoan     int                 `json:"units_on_loan"`
	UnitsWrittenOff int                 `json:"units_written_off"`
	WriteOffValue   decimal.Decimal     `json:"write_off_value"`
	WriteOffs       []EquipmentWriteOff `json:"write_offs"`
	GeneratedAt     time.Time           `json:"generated_at"`
}
