package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type equipmentRepository struct {
	s *Store
}

func (r *equipmentRepository) Create(_ context.Context, e *domain.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.labs[e.LabID]; !ok {
		return apperrors.WrapLabNotFound(e.LabID.String())
	}
	r.s.equipment[e.ID] = *e
	return nil
}

func (r *equipmentRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.equipment[id]
	if !ok {
		return nil, apperrors.WrapEquipmentNotFound(id.String())
	}
	return &e, nil
}

func (r *equipmentRepository) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[uuid.UUID]*domain.Equipment, len(ids))
	for _, id := range ids {
		if e, ok := r.s.equipment[id]; ok {
			out[id] = &e
		}
	}
	return out, nil
}

func (r *equipmentRepository) List(_ context.Context, filter domain.EquipmentFilter) ([]*domain.Equipment, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	items := []*domain.Equipment{}
	for _, e := range r.s.equipment {
		if filter.LabID != nil && e.LabID != *filter.LabID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Description), search) {
			continue
		}
		if filter.OnlyAvailable && e.AvailableQuantity <= 0 {
			continue
		}
		item := e
		items = append(items, &item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return lessID(items[i].ID, items[j].ID)
	})
	return paginate(items, filter.Limit, filter.Offset), len(items), nil
}

func (r *equipmentRepository) Update(_ context.Context, e *domain.Equipment, total *int) (*domain.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.equipment[e.ID]
	if !ok {
		return nil, apperrors.WrapEquipmentNotFound(e.ID.String())
	}
	if _, ok := r.s.labs[e.LabID]; !ok {
		return nil, apperrors.WrapLabNotFound(e.LabID.String())
	}

	current.LabID = e.LabID
	current.Name = e.Name
	current.Category = e.Category
	current.Description = e.Description
	current.UnitCost = e.UnitCost
	current.UpdatedAt = e.UpdatedAt
	if total != nil {
		current.SetTotal(*total)
	}
	r.s.equipment[e.ID] = current
	return &current, nil
}

func (r *equipmentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.equipment[id]; !ok {
		return apperrors.WrapEquipmentNotFound(id.String())
	}
	for _, l := range r.s.loans {
		for _, line := range l.Lines {
			if line.EquipmentID == id {
				return apperrors.WrapInUse("equipment", id.String(), "loans still refer to it")
			}
		}
	}
	delete(r.s.equipment, id)
	return nil
}
