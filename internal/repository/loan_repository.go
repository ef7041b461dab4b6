package repository

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

const loanColumns = `id, user_id, lab_id, beneficiary_name, beneficiary_email, beneficiary_document,
	status, borrow_date, due_date, actual_return_date, return_note, created_at, updated_at`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateWithReservation(ctx context.Context, loan *domain.Loan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	defer tx.Rollback()

	// Lock rows in a stable order so concurrent loans cannot deadlock.
	lines := append([]domain.LoanLine(nil), loan.Lines...)
	sort.Slice(lines, func(i, j int) bool {
		return bytes.Compare(lines[i].EquipmentID[:], lines[j].EquipmentID[:]) < 0
	})

	for _, line := range lines {
		if err := reserve(ctx, tx, line, loan.CreatedAt); err != nil {
			return err
		}
	}

	insertLoan := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES (:id, :user_id, :lab_id, :beneficiary_name, :beneficiary_email, :beneficiary_document,
			:status, :borrow_date, :due_date, :actual_return_date, :return_note, :created_at, :updated_at)
	`
	if _, err := tx.NamedExecContext(ctx, insertLoan, loan); err != nil {
		if isForeignKeyViolation(err) {
			if violatedConstraint(err) == "loans_user_id_fkey" {
				return apperrors.WrapUserNotFound(loan.UserID.String())
			}
			return apperrors.WrapLabNotFound(loan.LabID.String())
		}
		return apperrors.WrapDatabaseError(err)
	}

	insertLine := `
		INSERT INTO loan_lines (loan_id, position, equipment_id, quantity_borrowed, quantity_returned)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, line := range loan.Lines {
		if _, err := tx.ExecContext(ctx, insertLine, loan.ID, i, line.EquipmentID, line.QuantityBorrowed, line.QuantityReturned); err != nil {
			return apperrors.WrapDatabaseError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

// reserve decrements availability only when enough units are left. When no
// row matches it tells a missing record apart from a shortfall.
func reserve(ctx context.Context, tx *sqlx.Tx, line domain.LoanLine, at time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE equipment
		SET available_quantity = available_quantity - $2, updated_at = $3
		WHERE id = $1 AND available_quantity >= $2
	`, line.EquipmentID, line.QuantityBorrowed, at)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	if n == 1 {
		return nil
	}

	var available int
	err = tx.GetContext(ctx, &available, `SELECT available_quantity FROM equipment WHERE id = $1`, line.EquipmentID)
	if err != nil {
		return notFoundOr(err, apperrors.WrapEquipmentNotFound(line.EquipmentID.String()))
	}
	return apperrors.WrapInsufficientStock(line.EquipmentID.String(), line.QuantityBorrowed, available)
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, notFoundOr(err, apperrors.WrapLoanNotFound(id.String()))
	}
	if err := r.attachLines(ctx, []*domain.Loan{&loan}); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, int, error) {
	var w where
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}
	if filter.LabID != nil {
		w.add("lab_id = ?", *filter.LabID)
	}
	if filter.UserID != nil {
		w.add("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		w.add("borrow_date >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("borrow_date <= ?", *filter.To)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM loans`+w.sql()), w.args...); err != nil {
		return nil, 0, apperrors.WrapDatabaseError(err)
	}

	limit, args := w.page(filter.Limit, filter.Offset)
	query := `SELECT ` + loanColumns + ` FROM loans` + w.sql() + ` ORDER BY borrow_date DESC, id` + limit

	loans := []*domain.Loan{}
	if err := r.db.SelectContext(ctx, &loans, r.db.Rebind(query), args...); err != nil {
		return nil, 0, apperrors.WrapDatabaseError(err)
	}
	if err := r.attachLines(ctx, loans); err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (r *loanRepository) ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = $1 ORDER BY due_date, id`

	loans := []*domain.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, status); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	if err := r.attachLines(ctx, loans); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) attachLines(ctx context.Context, loans []*domain.Loan) error {
	if len(loans) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(loans))
	byID := make(map[uuid.UUID]*domain.Loan, len(loans))
	for i, l := range loans {
		ids[i] = l.ID
		byID[l.ID] = l
		l.Lines = []domain.LoanLine{}
	}

	query := `
		SELECT loan_id, equipment_id, quantity_borrowed, quantity_returned
		FROM loan_lines
		WHERE loan_id = ANY($1::uuid[])
		ORDER BY loan_id, position
	`

	var lines []domain.LoanLine
	if err := r.db.SelectContext(ctx, &lines, query, pq.Array(uuidStrings(ids))); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	for _, line := range lines {
		if l, ok := byID[line.LoanID]; ok {
			l.Lines = append(l.Lines, line)
		}
	}
	return nil
}

func (r *loanRepository) CompleteReturn(ctx context.Context, loan *domain.Loan, plan []domain.ReturnAdjustment) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, apperrors.WrapDatabaseError(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE loans
		SET status = $2, actual_return_date = $3, return_note = $4, updated_at = $5
		WHERE id = $1 AND status IN ('active', 'overdue')
	`, loan.ID, domain.LoanStatusReturned, loan.ActualReturnDate, loan.ReturnNote, loan.UpdatedAt)
	if err != nil {
		return false, apperrors.WrapDatabaseError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.WrapDatabaseError(err)
	}
	if n == 0 {
		return false, nil
	}

	for _, line := range loan.Lines {
		_, err := tx.ExecContext(ctx, `
			UPDATE loan_lines SET quantity_returned = $3
			WHERE loan_id = $1 AND equipment_id = $2
		`, loan.ID, line.EquipmentID, line.QuantityReturned)
		if err != nil {
			return false, apperrors.WrapDatabaseError(err)
		}
	}

	// Mirrors domain.Equipment.ApplyReturn: every right-hand side sees the
	// pre-update row, so $3 is the write-off applied to the old total.
	restock := `
		UPDATE equipment
		SET total_quantity = GREATEST(total_quantity - $3, 0),
		    available_quantity = LEAST(available_quantity + $2, GREATEST(total_quantity - $3, 0)),
		    updated_at = $4
		WHERE id = $1
	`
	for _, adj := range plan {
		res, err := tx.ExecContext(ctx, restock, adj.EquipmentID, adj.Returned, adj.WriteOff, loan.UpdatedAt)
		if err != nil {
			return false, apperrors.WrapDatabaseError(err)
		}
		if err := affectedOr(res, apperrors.WrapEquipmentNotFound(adj.EquipmentID.String())); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, apperrors.WrapDatabaseError(err)
	}
	return true, nil
}

func (r *loanRepository) MarkOverdue(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE loans SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`, id, domain.LoanStatusOverdue, at, domain.LoanStatusActive)
	if err != nil {
		return false, apperrors.WrapDatabaseError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.WrapDatabaseError(err)
	}
	return n == 1, nil
}

func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return affectedOr(res, apperrors.WrapLoanNotFound(id.String()))
}
