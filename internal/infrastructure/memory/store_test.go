package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(id, company, sku string, stock int) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID: id, CompanyID: company, SKU: sku, Name: sku,
		UnitPrice: decimal.NewFromInt(10), CurrentStock: stock, MinimumStock: 2, Active: true,
	}
}

func TestItemRepo_CreateUnicoPorEmpresaYSKU(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewItemRepository(memory.NewStore())

	require.NoError(t, repo.Create(ctx, newItem("i1", "c1", "A", 1)))
	require.NoError(t, repo.Create(ctx, newItem("i2", "c2", "A", 1)), "el mismo SKU en otra empresa es válido")
	assert.ErrorIs(t, repo.Create(ctx, newItem("i3", "c1", "A", 1)), domain.ErrDuplicate)

	got, err := repo.GetByCompanyAndSKU(ctx, "c2", "A")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "i2", got.ID)
	assert.Equal(t, 1, got.Version)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTxRunner_RollbackDescartaEscrituras(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	require.NoError(t, items.Create(ctx, newItem("i1", "c1", "A", 5)))

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).Run(ctx, func(ir repository.InventoryItemRepository, mr repository.InventoryMovementRepository, _ repository.FormSubmissionRepository) error {
		it, _ := ir.GetForUpdate(ctx, "i1")
		it.CurrentStock = 0
		require.NoError(t, ir.Update(ctx, it))

		seen, _ := ir.GetByID(ctx, "i1")
		assert.Equal(t, 0, seen.CurrentStock, "la tx ve sus propias escrituras")

		require.NoError(t, mr.Create(ctx, &entity.InventoryMovement{ID: "m1", CompanyID: "c1", InventoryItemID: "i1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	it, _ := items.GetByID(ctx, "i1")
	assert.Equal(t, 5, it.CurrentStock)
	assert.Equal(t, 1, it.Version)
	movs, _ := memory.NewMovementRepository(store).List(ctx, repository.MovementFilter{CompanyID: "c1"})
	assert.Empty(t, movs)
}

func TestTxRunner_ConflictoDeVersionAlConfirmar(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	require.NoError(t, items.Create(ctx, newItem("i1", "c1", "A", 5)))

	err := memory.NewTxRunner(store).Run(ctx, func(ir repository.InventoryItemRepository, _ repository.InventoryMovementRepository, _ repository.FormSubmissionRepository) error {
		it, _ := ir.GetForUpdate(ctx, "i1")

		// Otra escritura confirmada entre la lectura y el commit.
		other, _ := items.GetByID(ctx, "i1")
		other.CurrentStock = 1
		require.NoError(t, items.Update(ctx, other))

		it.CurrentStock = 9
		return ir.Update(ctx, it)
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	it, _ := items.GetByID(ctx, "i1")
	assert.Equal(t, 1, it.CurrentStock)
	assert.Equal(t, 2, it.Version)
}

func TestItemRepo_UpdateVersionVieja(t *testing.T) {
	ctx := context.Background()
	items := memory.NewItemRepository(memory.NewStore())
	require.NoError(t, items.Create(ctx, newItem("i1", "c1", "A", 5)))

	a, _ := items.GetByID(ctx, "i1")
	b, _ := items.GetByID(ctx, "i1")
	require.NoError(t, items.Update(ctx, a))
	assert.ErrorIs(t, items.Update(ctx, b), domain.ErrConflict)
}

func TestSubmissionRepo_EscriturasPorCampo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	subs := memory.NewSubmissionRepository(store)
	require.NoError(t, subs.Create(ctx, &entity.FormSubmission{
		ID: "s1", CompanyID: "c1", FormID: "f1", Status: "submitted",
		Data: entity.Payload{"note": entity.String("hola")},
	}))

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, subs.AppendAdjustment(ctx, "s1", entity.AdjustmentSummary{SKU: "A", Quantity: 1}))
	require.NoError(t, subs.AppendAdjustment(ctx, "s1", entity.AdjustmentSummary{SKU: "B", Quantity: 2}))
	require.NoError(t, subs.MarkProcessed(ctx, "s1", "u1", at))

	got, err := subs.GetByID(ctx, "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryStatusProcessed, got.InventoryStatus)
	assert.Equal(t, "u1", got.ProcessedBy)
	assert.Equal(t, "submitted", got.Status)
	assert.Equal(t, "hola", got.Data.Get("note").Text())
	require.Len(t, got.InventoryAdjustments, 2)
	assert.Equal(t, "B", got.InventoryAdjustments[1].SKU)

	other, err := subs.GetByID(ctx, "c2", "s1")
	require.NoError(t, err)
	assert.Nil(t, other, "un envío de otra empresa no es visible")

	assert.ErrorIs(t, subs.MarkFailed(ctx, "nope", "x", at), domain.ErrNotFound)
}

func TestMovementRepo_FiltrosYOrden(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMovementRepository(memory.NewStore())
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	seed := []*entity.InventoryMovement{
		{ID: "m1", CompanyID: "c1", InventoryItemID: "i1", MovementType: entity.MovementTypeIN, Quantity: 5, TotalValue: decimal.NewFromInt(50), PerformedBy: "u1", PerformedAt: base},
		{ID: "m2", CompanyID: "c1", InventoryItemID: "i1", MovementType: entity.MovementTypeOUT, Quantity: 2, TotalValue: decimal.NewFromInt(20), PerformedBy: "u2", PerformedAt: base.Add(time.Hour)},
		{ID: "m3", CompanyID: "c1", InventoryItemID: "i2", MovementType: entity.MovementTypeOUT, Quantity: 1, TotalValue: decimal.NewFromInt(7), PerformedBy: "u2", PerformedAt: base.Add(48 * time.Hour)},
		{ID: "m4", CompanyID: "c2", InventoryItemID: "i9", MovementType: entity.MovementTypeIN, Quantity: 1, TotalValue: decimal.NewFromInt(1), PerformedAt: base},
	}
	for _, m := range seed {
		require.NoError(t, repo.Create(ctx, m))
	}

	byItem, _ := repo.List(ctx, repository.MovementFilter{CompanyID: "c1", InventoryItemID: "i1", NewestFirst: true})
	require.Len(t, byItem, 2)
	assert.Equal(t, "m2", byItem[0].ID)

	to := base.Add(time.Hour)
	inRange, _ := repo.List(ctx, repository.MovementFilter{CompanyID: "c1", From: &base, To: &to})
	assert.Len(t, inRange, 2, "el rango es inclusivo en ambos extremos")

	byUser, _ := repo.List(ctx, repository.MovementFilter{CompanyID: "c1", PerformedBy: "u2", MovementType: entity.MovementTypeOUT})
	assert.Len(t, byUser, 2)

	sum, err := repo.Summary(ctx, "c1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalMovements)
	assert.True(t, decimal.NewFromInt(77).Equal(sum.TotalValue))
	assert.Equal(t, 3, sum.ByType[entity.MovementTypeOUT].Quantity)
}
