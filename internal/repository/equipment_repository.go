package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

const equipmentColumns = `id, lab_id, name, category, description, total_quantity, available_quantity, unit_cost, created_at, updated_at`

type equipmentRepository struct {
	db *sqlx.DB
}

func NewEquipmentRepository(db *sqlx.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	query := `
		INSERT INTO equipment (` + equipmentColumns + `)
		VALUES (:id, :lab_id, :name, :category, :description, :total_quantity, :available_quantity, :unit_cost, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.WrapLabNotFound(e.LabID.String())
		}
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`

	var e domain.Equipment
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		return nil, notFoundOr(err, apperrors.WrapEquipmentNotFound(id.String()))
	}
	return &e, nil
}

func (r *equipmentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Equipment, error) {
	out := make(map[uuid.UUID]*domain.Equipment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = ANY($1::uuid[])`

	var rows []*domain.Equipment
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(uuidStrings(ids))); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	for _, e := range rows {
		out[e.ID] = e
	}
	return out, nil
}

func (r *equipmentRepository) List(ctx context.Context, filter domain.EquipmentFilter) ([]*domain.Equipment, int, error) {
	var w where
	if filter.LabID != nil {
		w.add("lab_id = ?", *filter.LabID)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		w.add("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	if filter.OnlyAvailable {
		w.add("available_quantity > 0")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM equipment`+w.sql()), w.args...); err != nil {
		return nil, 0, apperrors.WrapDatabaseError(err)
	}

	limit, args := w.page(filter.Limit, filter.Offset)
	query := `SELECT ` + equipmentColumns + ` FROM equipment` + w.sql() + ` ORDER BY name, id` + limit

	items := []*domain.Equipment{}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, 0, apperrors.WrapDatabaseError(err)
	}
	return items, total, nil
}

func (r *equipmentRepository) Update(ctx context.Context, e *domain.Equipment, total *int) (*domain.Equipment, error) {
	// Right-hand sides see the pre-update row, so total_quantity below is the
	// old total. Mirrors domain.Equipment.SetTotal.
	query := `
		UPDATE equipment
		SET lab_id = $2, name = $3, category = $4, description = $5, unit_cost = $6, updated_at = $7,
		    total_quantity = COALESCE(GREATEST($8::int, 0), total_quantity),
		    available_quantity = CASE
		        WHEN $8::int IS NULL THEN available_quantity
		        ELSE LEAST(available_quantity + GREATEST(GREATEST($8::int, 0) - total_quantity, 0), GREATEST($8::int, 0))
		    END
		WHERE id = $1
		RETURNING ` + equipmentColumns

	var updated domain.Equipment
	err := r.db.GetContext(ctx, &updated, query,
		e.ID, e.LabID, e.Name, e.Category, e.Description, e.UnitCost, e.UpdatedAt, total)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.WrapLabNotFound(e.LabID.String())
		}
		return nil, notFoundOr(err, apperrors.WrapEquipmentNotFound(e.ID.String()))
	}
	return &updated, nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.WrapInUse("equipment", id.String(), "loans still refer to it")
		}
		return apperrors.WrapDatabaseError(err)
	}
	return affectedOr(res, apperrors.WrapEquipmentNotFound(id.String()))
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
