package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type labRepository struct {
	db *sqlx.DB
}

func NewLabRepository(db *sqlx.DB) LabRepository {
	return &labRepository{db: db}
}

func (r *labRepository) Create(ctx context.Context, lab *domain.Lab) error {
	query := `
		INSERT INTO labs (id, name, location, description, created_at, updated_at)
		VALUES (:id, :name, :location, :description, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, lab); err != nil {
		if isUniqueViolation(err) {
			return apperrors.WrapDuplicate("lab", "name", lab.Name)
		}
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

func (r *labRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lab, error) {
	query := `
		SELECT id, name, location, description, created_at, updated_at
		FROM labs
		WHERE id = $1
	`

	var lab domain.Lab
	if err := r.db.GetContext(ctx, &lab, query, id); err != nil {
		return nil, notFoundOr(err, apperrors.WrapLabNotFound(id.String()))
	}
	return &lab, nil
}

func (r *labRepository) List(ctx context.Context) ([]*domain.Lab, error) {
	query := `
		SELECT id, name, location, description, created_at, updated_at
		FROM labs
		ORDER BY name
	`

	labs := []*domain.Lab{}
	if err := r.db.SelectContext(ctx, &labs, query); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return labs, nil
}

func (r *labRepository) Update(ctx context.Context, lab *domain.Lab) error {
	query := `
		UPDATE labs
		SET name = :name, location = :location, description = :description, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := r.db.NamedExecContext(ctx, query, lab)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.WrapDuplicate("lab", "name", lab.Name)
		}
		return apperrors.WrapDatabaseError(err)
	}
	return affectedOr(res, apperrors.WrapLabNotFound(lab.ID.String()))
}

func (r *labRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM labs WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.WrapInUse("lab", id.String(), "equipment or loans still refer to it")
		}
		return apperrors.WrapDatabaseError(err)
	}
	return affectedOr(res, apperrors.WrapLabNotFound(id.String()))
}
