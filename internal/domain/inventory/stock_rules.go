package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
)

// StockAfter calcula el stock resultante de aplicar un ajuste (servicio de dominio).
// IN suma, OUT resta y ADJUSTMENT fija el stock en quantity (sobrescribe, no es delta).
func StockAfter(adjustmentType string, stockBefore, quantity int) (int, error) {
	var after int
	switch adjustmentType {
	case entity.MovementTypeIN:
		after = stockBefore + quantity
	case entity.MovementTypeOUT:
		after = stockBefore - quantity
	case entity.MovementTypeADJUSTMENT:
		after = quantity
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAdjustmentType, adjustmentType)
	}
	if after < 0 {
		return 0, fmt.Errorf("%w: stock resultante %d (antes %d, %s %d)",
			domain.ErrInvalidStockLevel, after, stockBefore, adjustmentType, quantity)
	}
	return after, nil
}

// DeriveStatus estado del ítem según su stock: 0 agotado, <= mínimo bajo, si no activo.
func DeriveStatus(currentStock, minimumStock int) string {
	switch {
	case currentStock == 0:
		return entity.ItemStatusOutOfStock
	case currentStock <= minimumStock:
		return entity.ItemStatusLowStock
	default:
		return entity.ItemStatusActive
	}
}

// ExceedsMaximum indica si stock supera el máximo configurado (solo advertencia).
func ExceedsMaximum(item *entity.InventoryItem, stock int) bool {
	return item.MaximumStock != nil && stock > *item.MaximumStock
}

// ApplyStock fija el stock del ítem y recalcula los campos derivados.
// Es el único punto que escribe CurrentStock, TotalValue, Status, TotalMovements y LastMovementDate.
func ApplyStock(item *entity.InventoryItem, stock int, at time.Time) {
	item.CurrentStock = stock
	Recompute(item)
	item.TotalMovements++
	t := at
	item.LastMovementDate = &t
	item.UpdatedAt = at
}

// Recompute recalcula TotalValue y Status desde el estado actual (alta de ítems y semilla).
func Recompute(item *entity.InventoryItem) {
	item.TotalValue = item.UnitPrice.Mul(decimalFromInt(item.CurrentStock))
	item.Status = DeriveStatus(item.CurrentStock, item.MinimumStock)
}
