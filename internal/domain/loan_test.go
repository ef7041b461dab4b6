package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPlanReturn(t *testing.T) {
	scope := uuid.New()
	pipette := uuid.New()
	stranger := uuid.New()

	lines := []LoanLine{
		{EquipmentID: scope, QuantityBorrowed: 5},
		{EquipmentID: pipette, QuantityBorrowed: 2},
	}

	tests := []struct {
		name          string
		returned      []ReturnedLine
		expected      []ReturnAdjustment
		errorContains string
	}{
		{
			name:     "omitted list means everything came back",
			returned: nil,
			expected: []ReturnAdjustment{
				{EquipmentID: scope, Returned: 5},
				{EquipmentID: pipette, Returned: 2},
			},
		},
		{
			name:     "partial return on one line, other defaults to full",
			returned: []ReturnedLine{{EquipmentID: scope, Quantity: 3}},
			expected: []ReturnAdjustment{
				{EquipmentID: scope, Returned: 3, WriteOff: 2},
				{EquipmentID: pipette, Returned: 2},
			},
		},
		{
			name: "nothing came back",
			returned: []ReturnedLine{
				{EquipmentID: scope, Quantity: 0},
				{EquipmentID: pipette, Quantity: 0},
			},
			expected: []ReturnAdjustment{
				{EquipmentID: scope, Returned: 0, WriteOff: 5},
				{EquipmentID: pipette, Returned: 0, WriteOff: 2},
			},
		},
		{
			name:          "over-return is rejected",
			returned:      []ReturnedLine{{EquipmentID: pipette, Quantity: 3}},
			errorContains: "exceeds borrowed",
		},
		{
			name:          "unknown equipment is rejected",
			returned:      []ReturnedLine{{EquipmentID: stranger, Quantity: 1}},
			errorContains: "not part of this loan",
		},
		{
			name:          "negative quantity is rejected",
			returned:      []ReturnedLine{{EquipmentID: scope, Quantity: -1}},
			errorContains: "negative",
		},
		{
			name: "duplicate entries are rejected",
			returned: []ReturnedLine{
				{EquipmentID: scope, Quantity: 1},
				{EquipmentID: scope, Quantity: 2},
			},
			errorContains: "more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanReturn(lines, tt.returned)
			if tt.errorContains != "" {
				require.Error(t, err)
				var lineErr *ReturnLineError
				assert.True(t, errors.As(err, &lineErr))
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, plan)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, plan)
		})
	}
}

func TestLoan_ApplyReturnPlan(t *testing.T) {
	scope := uuid.New()
	loan := &Loan{
		Status: LoanStatusOverdue,
		Lines:  []LoanLine{{EquipmentID: scope, QuantityBorrowed: 5}},
	}
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	loan.ApplyReturnPlan([]ReturnAdjustment{{EquipmentID: scope, Returned: 3, WriteOff: 2}}, "two broke", at)

	assert.Equal(t, LoanStatusReturned, loan.Status)
	require.NotNil(t, loan.ActualReturnDate)
	assert.Equal(t, at, *loan.ActualReturnDate)
	assert.Equal(t, "two broke", loan.ReturnNote)
	assert.Equal(t, intPtr(3), loan.Lines[0].QuantityReturned)
	assert.Equal(t, 2, loan.Lines[0].WrittenOff())
}

func TestLoanStatus(t *testing.T) {
	assert.True(t, LoanStatusActive.IsOpen())
	assert.True(t, LoanStatusOverdue.IsOpen())
	assert.False(t, LoanStatusReturned.IsOpen())
	assert.False(t, LoanStatus("lost").Valid())
}

func TestLoanLine_WrittenOffBeforeReturn(t *testing.T) {
	assert.Equal(t, 0, LoanLine{QuantityBorrowed: 4}.WrittenOff())
}

func TestReturnLoanRequest_ReturnedLines(t *testing.T) {
	id := uuid.New()
	req := ReturnLoanRequest{Lines: []ReturnLineRequest{{EquipmentID: id, Quantity: intPtr(2)}}}

	assert.Equal(t, []ReturnedLine{{EquipmentID: id, Quantity: 2}}, req.ReturnedLines())
}
