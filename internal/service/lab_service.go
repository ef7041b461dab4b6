package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/repository"
)

type LabService struct {
	LabRepo repository.LabRepository
	now     func() time.Time
}

func NewLabService(labRepo repository.LabRepository) *LabService {
	return &LabService{LabRepo: labRepo, now: time.Now}
}

func (s *LabService) Create(ctx context.Context, id auth.Identity, req *domain.CreateLabRequest) (*domain.Lab, error) {
	if err := auth.Authorize(id, auth.ResourceLab, auth.ActionCreate); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lab := &domain.Lab{
		ID:          uuid.New(),
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.LabRepo.Create(ctx, lab); err != nil {
		return nil, err
	}
	return lab, nil
}

func (s *LabService) Get(ctx context.Context, id auth.Identity, labID uuid.UUID) (*domain.Lab, error) {
	if err := auth.Authorize(id, auth.ResourceLab, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.LabRepo.GetByID(ctx, labID)
}

func (s *LabService) List(ctx context.Context, id auth.Identity) ([]*domain.Lab, error) {
	if err := auth.Authorize(id, auth.ResourceLab, auth.ActionList); err != nil {
		return nil, err
	}
	return s.LabRepo.List(ctx)
}

func (s *LabService) Update(ctx context.Context, id auth.Identity, labID uuid.UUID, req *domain.UpdateLabRequest) (*domain.Lab, error) {
	if err := auth.Authorize(id, auth.ResourceLab, auth.ActionUpdate); err != nil {
		return nil, err
	}

	lab, err := s.LabRepo.GetByID(ctx, labID)
	if err != nil {
		return nil, err
	}
	req.Apply(lab)
	lab.UpdatedAt = s.now().UTC()

	if err := s.LabRepo.Update(ctx, lab); err != nil {
		return nil, err
	}
	return lab, nil
}

// Delete fails with a conflict while equipment, loans or users refer to the lab.
func (s *LabService) Delete(ctx context.Context, id auth.Identity, labID uuid.UUID) error {
	if err := auth.Authorize(id, auth.ResourceLab, auth.ActionDelete); err != nil {
		return err
	}
	return s.LabRepo.Delete(ctx, labID)
}
