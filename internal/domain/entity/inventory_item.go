package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un ítem de inventario.
const (
	ItemStatusActive     = "ACTIVE"
	ItemStatusLowStock   = "LOW_STOCK"
	ItemStatusOutOfStock = "OUT_OF_STOCK"
)

// InventoryItem representa un ítem con stock propio de una empresa.
// CurrentStock, TotalValue, Status y TotalMovements solo los escribe el motor de ajustes.
type InventoryItem struct {
	ID               string
	CompanyID        string
	SKU              string // único por empresa
	Name             string
	Description      string
	Category         string
	UnitPrice        decimal.Decimal
	CostPrice        decimal.Decimal
	Supplier         string
	CurrentStock     int
	MinimumStock     int
	MaximumStock     *int // nil = sin tope
	UnitOfMeasure    string
	Warehouse        string
	Location         string
	Status           string
	TotalValue       decimal.Decimal
	LastMovementDate *time.Time
	TotalMovements   int
	ListID           string
	ListItemID       string
	CustomFields     Payload
	Active           bool
	Version          int // control optimista; lo incrementa el repositorio en cada Update
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Clone devuelve una copia independiente (punteros y mapas incluidos).
func (i *InventoryItem) Clone() *InventoryItem {
	if i == nil {
		return nil
	}
	c := *i
	if i.MaximumStock != nil {
		m := *i.MaximumStock
		c.MaximumStock = &m
	}
	if i.LastMovementDate != nil {
		t := *i.LastMovementDate
		c.LastMovementDate = &t
	}
	if i.CustomFields != nil {
		c.CustomFields = make(Payload, len(i.CustomFields))
		for k, v := range i.CustomFields {
			c.CustomFields[k] = v
		}
	}
	return &c
}
