package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/affluo-inventario/internal/domain/inventory"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	companyA = "company1"
	companyB = "company2"
)

type fixture struct {
	store   *memory.Store
	items   *memory.ItemRepo
	movs    *memory.MovementRepo
	subs    *memory.SubmissionRepo
	forms   *memory.FormRepo
	locker  inventory.ItemLocker
	engine  *inventory.ProcessAdjustmentUseCase
	reports *inventory.ReportUseCase
}

func newFixture(t *testing.T, opts ...inventory.EngineOption) *fixture {
	return newFixtureWith(t, inventory.NewKeyedLocker(), logger.Nop(), opts...)
}

func newFixtureWith(t *testing.T, locker inventory.ItemLocker, log *logger.Logger, opts ...inventory.EngineOption) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:  store,
		items:  memory.NewItemRepository(store),
		movs:   memory.NewMovementRepository(store),
		subs:   memory.NewSubmissionRepository(store),
		forms:  memory.NewFormRepository(store),
		locker: locker,
	}
	clock := &stepClock{now: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}
	opts = append([]inventory.EngineOption{inventory.WithClock(clock.Now)}, opts...)
	f.engine = inventory.NewProcessAdjustmentUseCase(memory.NewTxRunner(store), f.items, f.subs, locker, log, opts...)
	f.reports = inventory.NewReportUseCase(f.items, f.movs, nil, nil)
	return f
}

// stepClock avanza un segundo en cada lectura para que los movimientos queden ordenados.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (f *fixture) addItem(t *testing.T, id, company, sku string, stock, min int, price string) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{
		ID:           id,
		CompanyID:    company,
		SKU:          sku,
		Name:         "Item " + sku,
		UnitPrice:    decimal.RequireFromString(price),
		CurrentStock: stock,
		MinimumStock: min,
		Active:       true,
	}
	domaininv.Recompute(item)
	require.NoError(t, f.items.Create(context.Background(), item))
	return item
}

func (f *fixture) addSubmission(t *testing.T, id, company, formID string, data entity.Payload) {
	t.Helper()
	require.NoError(t, f.subs.Create(context.Background(), &entity.FormSubmission{
		ID:          id,
		CompanyID:   company,
		FormID:      formID,
		SubmittedBy: "user-1",
		Data:        data,
		Status:      "submitted",
	}))
}

func (f *fixture) item(t *testing.T, id string) *entity.InventoryItem {
	t.Helper()
	it, err := f.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

func (f *fixture) submission(t *testing.T, company, id string) *entity.FormSubmission {
	t.Helper()
	sub, err := f.subs.GetByID(context.Background(), company, id)
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

func request(subID, typ string, items ...inventory.ItemAdjustment) inventory.AdjustmentRequest {
	return inventory.AdjustmentRequest{
		CompanyID:        companyA,
		FormSubmissionID: subID,
		FormID:           "form-1",
		PerformedBy:      "user-1",
		AdjustmentType:   typ,
		Reason:           inventory.ReasonFor(typ),
		ReferenceNumber:  inventory.SubmissionReference(subID),
		Items:            items,
	}
}

func adj(itemID string, qty int) inventory.ItemAdjustment {
	return inventory.ItemAdjustment{InventoryItemID: itemID, Quantity: qty}
}
