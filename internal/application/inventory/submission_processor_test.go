package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/application/seed"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor(t *testing.T, f *fixture) *inventory.SubmissionProcessor {
	t.Helper()
	forms := seeded(t, f)
	return inventory.NewSubmissionProcessor(f.subs, forms, inventory.NewExtractor(f.items, logger.Nop()), f.engine, f.locker, logger.Nop())
}

func TestSubmissionProcessor_OrdenDeVentaDeExtremoAExtremo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	proc := newProcessor(t, f)
	f.addSubmission(t, "abcdef123456", seed.SampleCompanyID, seed.SalesOrderFormID,
		payload(t, `{"customer":"ACME","product":"LAP-001","quantity":40}`))

	out, err := proc.Process(ctx, seed.SampleCompanyID, "abcdef123456")
	require.NoError(t, err)
	assert.False(t, out.Skipped)
	require.NotNil(t, out.Result)
	require.Len(t, out.Result.Movements, 1)

	m := out.Result.Movements[0]
	assert.Equal(t, entity.MovementTypeOUT, m.MovementType)
	assert.Equal(t, "FS-ABCDEF12", m.ReferenceNumber)
	assert.Equal(t, entity.ReasonSaleShipping, m.ReferenceType)
	assert.Equal(t, "Auto-processed from form submission", m.Notes)
	assert.Equal(t, "user-1", m.PerformedBy)
	assert.Equal(t, seed.SalesOrderFormID, m.FormID)
	assert.Equal(t, "ACME", m.Metadata.Get("customer").Text())

	item := f.item(t, "item-1")
	assert.Equal(t, 5, item.CurrentStock)
	assert.Equal(t, entity.ItemStatusLowStock, item.Status)
	assert.True(t, decimal.RequireFromString("6499.95").Equal(item.TotalValue))

	sub := f.submission(t, seed.SampleCompanyID, "abcdef123456")
	assert.Equal(t, entity.InventoryStatusProcessed, sub.InventoryStatus)
	require.Len(t, sub.InventoryAdjustments, 1)
	assert.Equal(t, "ACME", sub.InventoryAdjustments[0].FormData.Get("customer").Text())

	// Un segundo procesamiento no duplica movimientos.
	_, err = proc.Process(ctx, seed.SampleCompanyID, "abcdef123456")
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 5, f.item(t, "item-1").CurrentStock)
}

func TestSubmissionProcessor_ConcurrenteSoloUnoAplica(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	proc := newProcessor(t, f)
	f.addSubmission(t, "race-1", seed.SampleCompanyID, seed.SalesOrderFormID,
		payload(t, `{"product":"LAP-001","quantity":3}`))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := proc.Process(ctx, seed.SampleCompanyID, "race-1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 42, f.item(t, "item-1").CurrentStock)

	movs, err := f.reports.SubmissionMovements(ctx, seed.SampleCompanyID, "race-1")
	require.NoError(t, err)
	assert.Len(t, movs, 1)
	assert.Len(t, f.submission(t, seed.SampleCompanyID, "race-1").InventoryAdjustments, 1)
}

func TestSubmissionProcessor_FormularioSinInventario(t *testing.T) {
	f := newFixture(t)
	proc := newProcessor(t, f)
	f.addSubmission(t, "fb-1", seed.SampleCompanyID, seed.CustomerFeedbackID, payload(t, `{"rating":5,"comments":"ok"}`))

	out, err := proc.Process(context.Background(), seed.SampleCompanyID, "fb-1")
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.Nil(t, out.Result)

	sub := f.submission(t, seed.SampleCompanyID, "fb-1")
	assert.Empty(t, sub.InventoryStatus)
	assert.Empty(t, sub.InventoryAdjustments)
}

func TestSubmissionProcessor_SinItemsResueltos(t *testing.T) {
	f := newFixture(t)
	proc := newProcessor(t, f)
	f.addSubmission(t, "so-1", seed.SampleCompanyID, seed.SalesOrderFormID, payload(t, `{"product":"NOPE","quantity":2}`))

	out, err := proc.Process(context.Background(), seed.SampleCompanyID, "so-1")
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, inventory.WarningUnresolvedItem, out.Warnings[0].Code)
}

func TestSubmissionProcessor_FalloDelMotorMarcaFallido(t *testing.T) {
	f := newFixture(t)
	proc := newProcessor(t, f)
	f.addSubmission(t, "so-1", seed.SampleCompanyID, seed.SalesOrderFormID, payload(t, `{"product":"LAP-001","quantity":46}`))

	_, err := proc.Process(context.Background(), seed.SampleCompanyID, "so-1")
	require.ErrorIs(t, err, domain.ErrInvalidStockLevel)
	assert.Equal(t, 45, f.item(t, "item-1").CurrentStock)
	assert.Equal(t, entity.InventoryStatusFailed, f.submission(t, seed.SampleCompanyID, "so-1").InventoryStatus)
}

func TestSubmissionProcessor_EnvioOFormularioInexistente(t *testing.T) {
	f := newFixture(t)
	proc := newProcessor(t, f)

	_, err := proc.Process(context.Background(), seed.SampleCompanyID, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	f.addSubmission(t, "orphan", seed.SampleCompanyID, "form-gone", nil)
	_, err = proc.Process(context.Background(), seed.SampleCompanyID, "orphan")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmissionReference(t *testing.T) {
	assert.Equal(t, "FS-ABC", inventory.SubmissionReference("abc"))
	assert.Equal(t, "FS-0193A1B2", inventory.SubmissionReference("0193a1b2-7c4d-7000-8000-000000000000"))
}
