package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_MovimientosYFiltros(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addItem(t, "i1", companyA, "SKU-1", 10, 2, "3")
	f.addItem(t, "i2", companyA, "SKU-2", 10, 2, "5")
	f.addSubmission(t, "s1", companyA, "form-1", nil)
	f.addSubmission(t, "s2", companyA, "form-1", nil)

	_, err := f.engine.ProcessAdjustment(ctx, request("s1", entity.MovementTypeIN, adj("i1", 5), adj("i2", 1)))
	require.NoError(t, err)
	_, err = f.engine.ProcessAdjustment(ctx, request("s2", entity.MovementTypeOUT, adj("i1", 2)))
	require.NoError(t, err)

	all, err := f.reports.Movements(ctx, repository.MovementFilter{CompanyID: companyA})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	outs, err := f.reports.Movements(ctx, repository.MovementFilter{CompanyID: companyA, MovementType: entity.MovementTypeOUT})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, "s2", outs[0].FormSubmissionID)

	bySub, err := f.reports.SubmissionMovements(ctx, companyA, "s1")
	require.NoError(t, err)
	assert.Len(t, bySub, 2)

	newest, err := f.reports.ItemMovements(ctx, companyA, "i1")
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, entity.MovementTypeOUT, newest[0].MovementType)

	summary, err := f.reports.MovementSummary(ctx, companyA, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalMovements)
	assert.Equal(t, 6, summary.ByType[entity.MovementTypeIN].Quantity)
	assert.Equal(t, 2, summary.ByType[entity.MovementTypeIN].Count)
	assert.Equal(t, "20", summary.ByType[entity.MovementTypeIN].Value.String())
	assert.Equal(t, 1, summary.ByType[entity.MovementTypeOUT].Count)
	assert.Equal(t, 2, summary.ByType[entity.MovementTypeOUT].Quantity)
	assert.Equal(t, "6", summary.ByType[entity.MovementTypeOUT].Value.String())
	assert.Equal(t, "26", summary.TotalValue.String())
}

func TestReport_FiltrosInvalidos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reports.Movements(ctx, repository.MovementFilter{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reports.Movements(ctx, repository.MovementFilter{CompanyID: companyA, MovementType: "MOVE"})
	require.ErrorIs(t, err, domain.ErrInvalidAdjustmentType)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	_, err = f.reports.MovementSummary(ctx, companyA, &from, &to)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReport_ItemDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "foreign", companyB, "SKU-9", 1, 0, "1")

	_, err := f.reports.GetItem(context.Background(), companyA, "foreign")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.reports.VerifyItemChain(context.Background(), companyA, "foreign")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReport_StockReport(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", companyA, "ZZZ", 1, 5, "1")
	f.addItem(t, "i2", companyA, "AAA", 2, 5, "1")
	f.addItem(t, "i3", companyA, "OUT", 0, 5, "1")
	f.addItem(t, "i4", companyA, "OK", 50, 5, "1")

	rep, err := f.reports.StockReport(context.Background(), companyA)
	require.NoError(t, err)
	require.Len(t, rep.LowStock, 2)
	assert.Equal(t, "AAA", rep.LowStock[0].SKU)
	assert.Equal(t, "ZZZ", rep.LowStock[1].SKU)
	require.Len(t, rep.OutOfStock, 1)
	assert.Equal(t, "OUT", rep.OutOfStock[0].SKU)
	assert.Equal(t, 4, rep.Summary.TotalItems)
	assert.Equal(t, 53, rep.Summary.TotalUnits)
}

func TestReport_DescargasSinConfigurar(t *testing.T) {
	f := newFixture(t)
	_, err := f.reports.ExportMovements(context.Background(), repository.MovementFilter{CompanyID: companyA})
	assert.Error(t, err)
	_, err = f.reports.StockReportPDF(context.Background(), companyA)
	assert.Error(t, err)
}

func TestCheckChain(t *testing.T) {
	movs := []*entity.InventoryMovement{
		{ID: "m1", StockBefore: 0, StockAfter: 10},
		{ID: "m2", StockBefore: 10, StockAfter: 4},
		{ID: "m3", StockBefore: 5, StockAfter: 9},
	}
	breaks := inventory.CheckChain(movs)
	require.Len(t, breaks, 1)
	assert.Equal(t, inventory.ChainBreak{Index: 2, MovementID: "m3", ExpectedBefore: 4, ActualBefore: 5}, breaks[0])
	assert.Empty(t, inventory.CheckChain(movs[:2]))
	assert.Empty(t, inventory.CheckChain(nil))
}
