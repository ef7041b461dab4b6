package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/repository"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type EquipmentService struct {
	EquipmentRepo repository.EquipmentRepository
	LabRepo       repository.LabRepository
	now           func() time.Time
}

func NewEquipmentService(equipmentRepo repository.EquipmentRepository, labRepo repository.LabRepository) *EquipmentService {
	return &EquipmentService{EquipmentRepo: equipmentRepo, LabRepo: labRepo, now: time.Now}
}

// Create registers a new pool of units; all of them start available.
func (s *EquipmentService) Create(ctx context.Context, id auth.Identity, req *domain.CreateEquipmentRequest) (*domain.Equipment, error) {
	if err := auth.Authorize(id, auth.ResourceEquipment, auth.ActionCreate); err != nil {
		return nil, err
	}

	unitCost := decimal.Zero
	if req.UnitCost != nil {
		if req.UnitCost.IsNegative() {
			return nil, customError.ValidationField("unit_cost", "must not be negative")
		}
		unitCost = req.UnitCost.Round(2)
	}

	if _, err := s.LabRepo.GetByID(ctx, req.LabID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	e := &domain.Equipment{
		ID:                uuid.New(),
		LabID:             req.LabID,
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		TotalQuantity:     req.TotalQuantity,
		AvailableQuantity: req.TotalQuantity,
		UnitCost:          unitCost,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.EquipmentRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EquipmentService) Get(ctx context.Context, id auth.Identity, equipmentID uuid.UUID) (*domain.Equipment, error) {
	if err := auth.Authorize(id, auth.ResourceEquipment, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.EquipmentRepo.GetByID(ctx, equipmentID)
}

// List scopes ordinary users with an assigned lab to that lab.
func (s *EquipmentService) List(ctx context.Context, id auth.Identity, filter domain.EquipmentFilter) ([]*domain.Equipment, int, error) {
	if err := auth.Authorize(id, auth.ResourceEquipment, auth.ActionList); err != nil {
		return nil, 0, err
	}
	if !id.IsAdmin() && id.LabID != nil {
		filter.LabID = id.LabID
	}
	return s.EquipmentRepo.List(ctx, filter)
}

// Update applies descriptive changes and, when requested, the new total in
// one repository write.
func (s *EquipmentService) Update(ctx context.Context, id auth.Identity, equipmentID uuid.UUID, req *domain.UpdateEquipmentRequest) (*domain.Equipment, error) {
	if err := auth.Authorize(id, auth.ResourceEquipment, auth.ActionUpdate); err != nil {
		return nil, err
	}
	if req.UnitCost != nil && req.UnitCost.IsNegative() {
		return nil, customError.ValidationField("unit_cost", "must not be negative")
	}
	if req.TotalQuantity != nil && *req.TotalQuantity < 0 {
		return nil, customError.ValidationField("total_quantity", "must not be negative")
	}

	e, err := s.EquipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if req.LabID != nil && *req.LabID != e.LabID {
		if _, err := s.LabRepo.GetByID(ctx, *req.LabID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	req.ApplyDetails(e)
	e.UnitCost = e.UnitCost.Round(2)
	e.UpdatedAt = now
	return s.EquipmentRepo.Update(ctx, e, req.TotalQuantity)
}

// Delete fails with a conflict while any loan line refers to the equipment.
func (s *EquipmentService) Delete(ctx context.Context, id auth.Identity, equipmentID uuid.UUID) error {
	if err := auth.Authorize(id, auth.ResourceEquipment, auth.ActionDelete); err != nil {
		return err
	}
	return s.EquipmentRepo.Delete(ctx, equipmentID)
}
