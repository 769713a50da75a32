package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryItemRepository = (*ItemRepo)(nil)

// ItemRepo ítems en memoria. Con tx != nil las escrituras quedan pendientes hasta el commit
// y las lecturas ven esas escrituras.
type ItemRepo struct {
	store *Store
	tx    *txState
}

// NewItemRepository repositorio fuera de transacción.
func NewItemRepository(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

// Create inserta el ítem con Version 1. (companyID, SKU) es único.
func (r *ItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[item.ID]; ok {
		return fmt.Errorf("%w: ítem %s", domain.ErrDuplicate, item.ID)
	}
	for _, it := range r.store.items {
		if it.CompanyID == item.CompanyID && it.SKU == item.SKU {
			return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, item.SKU)
		}
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}
	item.Version = 1
	r.store.items[item.ID] = item.Clone()
	return nil
}

// GetByID devuelve una copia del ítem o nil.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	return r.visible(id), nil
}

// GetByCompanyAndSKU busca por clave secundaria.
func (r *ItemRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.InventoryItem, error) {
	r.store.mu.RLock()
	var id string
	for _, it := range r.store.items {
		if it.CompanyID == companyID && it.SKU == sku {
			id = it.ID
			break
		}
	}
	r.store.mu.RUnlock()
	if id == "" {
		return nil, nil
	}
	return r.visible(id), nil
}

// GetForUpdate en memoria no bloquea la fila: la exclusión la dan ItemLocker y la verificación
// de versión del commit. Registra la versión leída para esa verificación.
func (r *ItemRepo) GetForUpdate(_ context.Context, id string) (*entity.InventoryItem, error) {
	item := r.visible(id)
	if item != nil && r.tx != nil {
		if _, ok := r.tx.baseVer[id]; !ok {
			r.tx.baseVer[id] = item.Version
		}
	}
	return item, nil
}

// Update aplica control optimista: la Version del ítem debe coincidir con la visible.
func (r *ItemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	cur := r.visible(item.ID)
	if cur == nil {
		return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, item.ID)
	}
	if cur.Version != item.Version {
		return fmt.Errorf("%w: versión %d, esperada %d", domain.ErrConflict, item.Version, cur.Version)
	}
	item.Version++
	if r.tx != nil {
		if _, ok := r.tx.baseVer[item.ID]; !ok {
			r.tx.baseVer[item.ID] = cur.Version
		}
		r.tx.items[item.ID] = item.Clone()
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if stored := r.store.items[item.ID]; stored.Version != cur.Version {
		item.Version--
		return fmt.Errorf("%w: ítem %s", domain.ErrConflict, item.ID)
	}
	r.store.items[item.ID] = item.Clone()
	return nil
}

// ListByCompany ítems activos de la empresa ordenados por SKU.
func (r *ItemRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(companyID, func(*entity.InventoryItem) bool { return true }), nil
}

// ListLowStock ítems activos con stock <= mínimo.
func (r *ItemRepo) ListLowStock(_ context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(companyID, func(it *entity.InventoryItem) bool {
		return it.CurrentStock <= it.MinimumStock
	}), nil
}

// ListOutOfStock ítems activos sin stock.
func (r *ItemRepo) ListOutOfStock(_ context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(companyID, func(it *entity.InventoryItem) bool {
		return it.CurrentStock == 0
	}), nil
}

// Summary agrega los ítems activos de la empresa.
func (r *ItemRepo) Summary(ctx context.Context, companyID string) (*repository.StockSummary, error) {
	items, _ := r.ListByCompany(ctx, companyID)
	sum := &repository.StockSummary{TotalValue: decimal.Zero}
	for _, it := range items {
		sum.TotalItems++
		sum.TotalUnits += it.CurrentStock
		sum.TotalValue = sum.TotalValue.Add(it.TotalValue)
		switch inventory.DeriveStatus(it.CurrentStock, it.MinimumStock) {
		case entity.ItemStatusOutOfStock:
			sum.OutOfStockItems++
		case entity.ItemStatusLowStock:
			sum.LowStockItems++
		default:
			sum.ActiveItems++
		}
	}
	return sum, nil
}

func (r *ItemRepo) list(companyID string, keep func(*entity.InventoryItem) bool) []*entity.InventoryItem {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.InventoryItem, 0)
	for _, it := range r.store.items {
		if it.CompanyID == companyID && it.Active && keep(it) {
			out = append(out, it.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// visible copia del ítem: la versión pendiente de la tx si existe, si no la confirmada.
func (r *ItemRepo) visible(id string) *entity.InventoryItem {
	if r.tx != nil {
		if it, ok := r.tx.items[id]; ok {
			return it.Clone()
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.items[id].Clone()
}
