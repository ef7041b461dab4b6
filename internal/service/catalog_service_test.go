package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	customError "github.com/segyhp/lab-loan-engine/pkg/errors"
)

func strPtr(v string) *string { return &v }

func TestEquipmentService_CreateStartsFullyAvailable(t *testing.T) {
	env := newTestEnv(t)
	cost := decimal.RequireFromString("12.345")

	e, err := env.equipment.Create(context.Background(), env.admin, &domain.CreateEquipmentRequest{
		LabID: env.lab.ID, Name: "Pipette", Category: "glass", TotalQuantity: 9, UnitCost: &cost,
	})
	require.NoError(t, err)

	assert.Equal(t, 9, e.AvailableQuantity)
	assert.Equal(t, "12.35", e.UnitCost.StringFixed(2))
	assert.Equal(t, env.lab.ID, env.reload(t, e.ID).LabID)
}

func TestEquipmentService_CreateRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	negative := decimal.NewFromInt(-1)

	_, err := env.equipment.Create(ctx, env.alice, &domain.CreateEquipmentRequest{
		LabID: env.lab.ID, Name: "Pipette", Category: "glass", TotalQuantity: 1,
	})
	assert.True(t, errors.Is(err, customError.ErrForbidden))

	_, err = env.equipment.Create(ctx, env.admin, &domain.CreateEquipmentRequest{
		LabID: env.lab.ID, Name: "Pipette", Category: "glass", TotalQuantity: 1, UnitCost: &negative,
	})
	assert.True(t, errors.Is(err, customError.ErrValidation))
}

func TestEquipmentService_TotalCutClampsAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := env.addEquipment(t, "Microscope", 10, 0)
	env.borrow(t, env.alice, week, line(scope.ID, 3))

	updated, err := env.equipment.Update(ctx, env.admin, scope.ID, &domain.UpdateEquipmentRequest{
		Name:          strPtr("Stereo microscope"),
		TotalQuantity: intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "Stereo microscope", updated.Name)
	assert.Equal(t, 4, updated.TotalQuantity)
	assert.Equal(t, 4, updated.AvailableQuantity)

	updated, err = env.equipment.Update(ctx, env.admin, scope.ID, &domain.UpdateEquipmentRequest{TotalQuantity: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.AvailableQuantity)

	_, err = env.loans.Create(ctx, env.alice, env.loanRequest(week, line(scope.ID, 1)))
	assert.True(t, errors.Is(err, customError.ErrInsufficientStock))

	_, err = env.equipment.Update(ctx, env.admin, scope.ID, &domain.UpdateEquipmentRequest{TotalQuantity: intPtr(-1)})
	assert.True(t, errors.Is(err, customError.ErrValidation))
}

func TestEquipmentService_TotalRaiseMakesUnitsAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := env.addEquipment(t, "Microscope", 10, 0)
	env.borrow(t, env.alice, week, line(scope.ID, 3))

	updated, err := env.equipment.Update(ctx, env.admin, scope.ID, &domain.UpdateEquipmentRequest{TotalQuantity: intPtr(15)})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.TotalQuantity)
	assert.Equal(t, 12, updated.AvailableQuantity)
	assert.Equal(t, 3, updated.OnLoan())

	_, err = env.loans.Create(ctx, env.alice, env.loanRequest(week, line(scope.ID, 12)))
	require.NoError(t, err)

	assert.Equal(t, 0, env.reload(t, scope.ID).AvailableQuantity)
}

func TestEquipmentService_DetailsUpdateKeepsQuantities(t *testing.T) {
	env := newTestEnv(t)
	scope := env.addEquipment(t, "Microscope", 6, 0)
	env.borrow(t, env.alice, week, line(scope.ID, 2))

	updated, err := env.equipment.Update(context.Background(), env.admin, scope.ID, &domain.UpdateEquipmentRequest{
		Category: strPtr("optics"),
	})
	require.NoError(t, err)
	assert.Equal(t, "optics", updated.Category)

	e := env.reload(t, scope.ID)
	assert.Equal(t, 6, e.TotalQuantity)
	assert.Equal(t, 4, e.AvailableQuantity)
}

func TestEquipmentService_ListScopedToUserLab(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addEquipment(t, "Microscope", 2, 0)
	_, err := env.equipment.Create(ctx, env.admin, &domain.CreateEquipmentRequest{
		LabID: env.otherLab.ID, Name: "Burette", Category: "glass", TotalQuantity: 3,
	})
	require.NoError(t, err)

	_, total, err := env.equipment.List(ctx, env.admin, domain.EquipmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	items, total, err := env.equipment.List(ctx, env.alice, domain.EquipmentFilter{LabID: &env.otherLab.ID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Microscope", items[0].Name)
}

func TestEquipmentService_DeleteReferencedIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := env.addEquipment(t, "Microscope", 2, 0)
	spare := env.addEquipment(t, "Spare lamp", 2, 0)
	env.borrow(t, env.alice, week, line(scope.ID, 1))

	err := env.equipment.Delete(ctx, env.admin, scope.ID)
	assert.True(t, errors.Is(err, customError.ErrConflict))

	require.NoError(t, env.equipment.Delete(ctx, env.admin, spare.ID))
	_, err = env.equipment.Get(ctx, env.alice, spare.ID)
	assert.True(t, errors.Is(err, customError.ErrNotFound))
}

func TestLabService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lab, err := env.labs.Create(ctx, env.admin, &domain.CreateLabRequest{Name: "Genetics", Location: "B-12"})
	require.NoError(t, err)

	_, err = env.labs.Create(ctx, env.admin, &domain.CreateLabRequest{Name: "Genetics"})
	assert.True(t, errors.Is(err, customError.ErrConflict))

	_, err = env.labs.Create(ctx, env.alice, &domain.CreateLabRequest{Name: "Physics"})
	assert.True(t, errors.Is(err, customError.ErrForbidden))

	updated, err := env.labs.Update(ctx, env.admin, lab.ID, &domain.UpdateLabRequest{Location: strPtr("C-3")})
	require.NoError(t, err)
	assert.Equal(t, "Genetics", updated.Name)
	assert.Equal(t, "C-3", updated.Location)

	labs, err := env.labs.List(ctx, env.alice)
	require.NoError(t, err)
	assert.Len(t, labs, 3)

	require.NoError(t, env.labs.Delete(ctx, env.admin, lab.ID))
	_, err = env.labs.Get(ctx, env.admin, lab.ID)
	assert.True(t, errors.Is(err, customError.ErrNotFound))
}

func TestLabService_DeleteReferencedIsConflict(t *testing.T) {
	env := newTestEnv(t)

	err := env.labs.Delete(context.Background(), env.admin, env.lab.ID)
	assert.True(t, errors.Is(err, customError.ErrConflict), "users still belong to the lab")
}
