package repository

import (
	"context"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryMovementRepository define el puerto del log de movimientos (solo inserción y consultas).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
	Summary(ctx context.Context, companyID string, from, to *time.Time) (*MovementSummary, error)
}

// MovementFilter dimensiones de consulta de movimientos. CompanyID es obligatorio;
// los demás campos vacíos no filtran. From/To son inclusivos.
type MovementFilter struct {
	CompanyID        string
	InventoryItemID  string
	FormID           string
	FormSubmissionID string
	ReferenceNumber  string
	PerformedBy      string
	MovementType     string
	From             *time.Time
	To               *time.Time
	NewestFirst      bool
	Limit            int // 0 = sin límite
}

// MovementSummary agregados de movimientos en una ventana de tiempo.
type MovementSummary struct {
	TotalMovements int
	TotalValue     decimal.Decimal
	ByType         map[string]MovementTypeTotals
}

// MovementTypeTotals totales de un tipo de movimiento.
type MovementTypeTotals struct {
	Count    int
	Quantity int
	Value    decimal.Decimal
}
