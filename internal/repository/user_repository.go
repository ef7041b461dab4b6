package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

const userColumns = `id, name, email, password_hash, role, lab_id, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (:id, :name, :email, :password_hash, :role, :lab_id, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return apperrors.WrapDuplicate("user", "email", user.Email)
		}
		if isForeignKeyViolation(err) && user.LabID != nil {
			return apperrors.WrapLabNotFound(user.LabID.String())
		}
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, notFoundOr(err, apperrors.WrapUserNotFound(id.String()))
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, notFoundOr(err, apperrors.WrapUserNotFound(email))
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int, error) {
	var w where
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.LabID != nil {
		w.add("lab_id = ?", *filter.LabID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		w.add("(name ILIKE ? OR email ILIKE ?)", pattern, pattern)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM users`+w.sql()), w.args...); err != nil {
		return nil, 0, apperrors.WrapDatabaseError(err)
	}

	limit, args := w.page(filter.Limit, filter.Offset)
	query := `SELECT ` + userColumns + ` FROM users` + w.sql() + ` ORDER BY name, id` + limit

	users := []*domain.User{}
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, 0, apperrors.WrapDatabaseError(err)
	}
	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = :name, email = :email, password_hash = :password_hash, role = :role,
		    lab_id = :lab_id, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.WrapDuplicate("user", "email", user.Email)
		}
		if isForeignKeyViolation(err) && user.LabID != nil {
			return apperrors.WrapLabNotFound(user.LabID.String())
		}
		return apperrors.WrapDatabaseError(err)
	}
	return affectedOr(res, apperrors.WrapUserNotFound(user.ID.String()))
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.WrapInUse("user", id.String(), "loans still refer to it")
		}
		return apperrors.WrapDatabaseError(err)
	}
	return affectedOr(res, apperrors.WrapUserNotFound(id.String()))
}
