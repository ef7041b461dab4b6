package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type labRepository struct {
	s *Store
}

func (r *labRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, lab := range r.s.labs {
		if id != except && lab.Name == name {
			return true
		}
	}
	return false
}

func (r *labRepository) Create(_ context.Context, lab *domain.Lab) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(lab.Name, lab.ID) {
		return apperrors.WrapDuplicate("lab", "name", lab.Name)
	}
	r.s.labs[lab.ID] = *lab
	return nil
}

func (r *labRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Lab, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lab, ok := r.s.labs[id]
	if !ok {
		return nil, apperrors.WrapLabNotFound(id.String())
	}
	return &lab, nil
}

func (r *labRepository) List(_ context.Context) ([]*domain.Lab, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	labs := make([]*domain.Lab, 0, len(r.s.labs))
	for _, lab := range r.s.labs {
		l := lab
		labs = append(labs, &l)
	}
	sort.Slice(labs, func(i, j int) bool {
		if labs[i].Name != labs[j].Name {
			return labs[i].Name < labs[j].Name
		}
		return lessID(labs[i].ID, labs[j].ID)
	})
	return labs, nil
}

func (r *labRepository) Update(_ context.Context, lab *domain.Lab) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.labs[lab.ID]; !ok {
		return apperrors.WrapLabNotFound(lab.ID.String())
	}
	if r.nameTaken(lab.Name, lab.ID) {
		return apperrors.WrapDuplicate("lab", "name", lab.Name)
	}
	r.s.labs[lab.ID] = *lab
	return nil
}

func (r *labRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.labs[id]; !ok {
		return apperrors.WrapLabNotFound(id.String())
	}
	if r.referenced(id) {
		return apperrors.WrapInUse("lab", id.String(), "equipment or loans still refer to it")
	}
	delete(r.s.labs, id)
	return nil
}

func (r *labRepository) referenced(id uuid.UUID) bool {
	for _, e := range r.s.equipment {
		if e.LabID == id {
			return true
		}
	}
	for _, l := range r.s.loans {
		if l.LabID == id {
			return true
		}
	}
	for _, u := range r.s.users {
		if u.LabID != nil && *u.LabID == id {
			return true
		}
	}
	return false
}
