package repository

import (
	"context"

	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryItemRepository define el puerto de persistencia para ítems de inventario.
// Las lecturas devuelven (nil, nil) cuando el ítem no existe.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.InventoryItem, error)
	// GetForUpdate lee el ítem y lo bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// Update persiste el ítem si su Version coincide con la almacenada y la incrementa;
	// si no coincide devuelve domain.ErrConflict.
	Update(ctx context.Context, item *entity.InventoryItem) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryItem, error)
	ListLowStock(ctx context.Context, companyID string) ([]*entity.InventoryItem, error)
	ListOutOfStock(ctx context.Context, companyID string) ([]*entity.InventoryItem, error)
	Summary(ctx context.Context, companyID string) (*StockSummary, error)
}

// StockSummary agregados del stock activo de una empresa.
type StockSummary struct {
	TotalItems      int
	TotalUnits      int
	TotalValue      decimal.Decimal
	ActiveItems     int
	LowStockItems   int
	OutOfStockItems int
}
