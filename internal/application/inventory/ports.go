package inventory

import (
	"context"

	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no se confirma ninguna escritura hecha a través de esos repositorios.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.InventoryMovementRepository,
		submissionRepo repository.FormSubmissionRepository,
	) error) error
}

// ItemLocker exclusión mutua por clave (un ítem o un envío). Lock bloquea hasta obtener la clave o hasta que
// ctx termine; la función devuelta libera la clave y es segura de llamar más de una vez.
type ItemLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// MovementExporter genera el archivo de movimientos (XLSX). items indexa los ítems por id
// para mostrar SKU y nombre.
type MovementExporter interface {
	ExportMovements(ctx context.Context, movements []*entity.InventoryMovement, items map[string]*entity.InventoryItem) ([]byte, error)
}

// StockReportRenderer genera la representación imprimible (PDF) del resumen de stock.
type StockReportRenderer interface {
	RenderStockReport(ctx context.Context, report *StockReport) ([]byte, error)
}
