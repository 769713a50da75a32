package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento / ajuste de inventario.
const (
	MovementTypeIN         = "IN"         // entrada: suma la cantidad
	MovementTypeOUT        = "OUT"        // salida: resta la cantidad
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste: fija el stock al valor indicado
)

// Motivos (referenceType) asignados a los ajustes originados en formularios.
const (
	ReasonPurchaseReceiving = "PURCHASE_RECEIVING"
	ReasonSaleShipping      = "SALE_SHIPPING"
	ReasonAdjustment        = "ADJUSTMENT"
)

// ValidMovementType indica si t es un tipo de movimiento soportado.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT:
		return true
	}
	return false
}

// InventoryMovement es un registro inmutable de un cambio de stock de un ítem.
// Para un mismo ítem, StockAfter de un movimiento es StockBefore del siguiente.
type InventoryMovement struct {
	ID               string
	CompanyID        string
	InventoryItemID  string
	FormID           string
	FormSubmissionID string
	MovementType     string
	Quantity         int // cantidad tal como se solicitó (> 0 en IN/OUT)
	UnitPrice        decimal.Decimal
	TotalValue       decimal.Decimal  // Quantity * UnitPrice
	AverageCost      *decimal.Decimal // reservado; sin costeo FIFO/LIFO
	StockBefore      int
	StockAfter       int
	ReferenceNumber  string
	ReferenceType    string
	Notes            string
	FromLocation     string
	ToLocation       string
	PerformedBy      string
	PerformedAt      time.Time
	Metadata         Payload
	CreatedAt        time.Time
}
