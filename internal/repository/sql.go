package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool { return pqCode(err) == pqUniqueViolation }

func isForeignKeyViolation(err error) bool { return pqCode(err) == pqForeignKeyViolation }

// violatedConstraint names the constraint a postgres error refers to, if any.
func violatedConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// notFoundOr maps sql.ErrNoRows to notFound and wraps anything else.
func notFoundOr(err error, notFound *apperrors.BusinessError) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return apperrors.WrapDatabaseError(err)
}

// affectedOr reports notFound when an UPDATE/DELETE touched no row.
func affectedOr(res sql.Result, notFound *apperrors.BusinessError) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// where accumulates AND-ed conditions written with "?" placeholders. Queries
// built from it go through Rebind before they reach the driver.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders when limit is set.
func (w *where) page(limit, offset int) (string, []interface{}) {
	if limit <= 0 {
		return "", w.args
	}
	args := append(append([]interface{}{}, w.args...), limit, offset)
	return " LIMIT ? OFFSET ?", args
}
