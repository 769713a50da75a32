package dto

import (
	"time"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockSummaryResponse agregados del stock activo.
type StockSummaryResponse struct {
	TotalItems      int             `json:"total_items"`
	TotalUnits      int             `json:"total_units"`
	TotalValue      decimal.Decimal `json:"total_value"`
	ActiveItems     int             `json:"active_items"`
	LowStockItems   int             `json:"low_stock_items"`
	OutOfStockItems int             `json:"out_of_stock_items"`
}

// MovementTypeTotalsResponse totales de un tipo de movimiento.
type MovementTypeTotalsResponse struct {
	Count    int             `json:"count"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// MovementSummaryResponse agregados de movimientos en una ventana.
type MovementSummaryResponse struct {
	StartDate      *time.Time                            `json:"start_date,omitempty"`
	EndDate        *time.Time                            `json:"end_date,omitempty"`
	TotalMovements int                                   `json:"total_movements"`
	TotalValue     decimal.Decimal                       `json:"total_value"`
	ByType         map[string]MovementTypeTotalsResponse `json:"by_type"`
}

// ChainBreakResponse quiebre de la cadena de stock.
type ChainBreakResponse struct {
	Index          int    `json:"index"`
	MovementID     string `json:"movement_id"`
	ExpectedBefore int    `json:"expected_before"`
	ActualBefore   int    `json:"actual_before"`
}

// ChainResponse verificación de la cadena de movimientos de un ítem.
type ChainResponse struct {
	ItemID         string               `json:"item_id"`
	Movements      int                  `json:"movements"`
	CurrentStock   int                  `json:"current_stock"`
	LastStockAfter *int                 `json:"last_stock_after,omitempty"`
	Consistent     bool                 `json:"consistent"`
	Breaks         []ChainBreakResponse `json:"breaks"`
}

// ToStockSummaryResponse mapea el resumen de stock.
func ToStockSummaryResponse(s *repository.StockSummary) StockSummaryResponse {
	return StockSummaryResponse{
		TotalItems:      s.TotalItems,
		TotalUnits:      s.TotalUnits,
		TotalValue:      s.TotalValue,
		ActiveItems:     s.ActiveItems,
		LowStockItems:   s.LowStockItems,
		OutOfStockItems: s.OutOfStockItems,
	}
}

// ToMovementSummaryResponse mapea el resumen de movimientos.
func ToMovementSummaryResponse(s *repository.MovementSummary, from, to *time.Time) MovementSummaryResponse {
	byType := make(map[string]MovementTypeTotalsResponse, len(s.ByType))
	for k, v := range s.ByType {
		byType[k] = MovementTypeTotalsResponse{Count: v.Count, Quantity: v.Quantity, Value: v.Value}
	}
	return MovementSummaryResponse{
		StartDate:      from,
		EndDate:        to,
		TotalMovements: s.TotalMovements,
		TotalValue:     s.TotalValue,
		ByType:         byType,
	}
}

// ToChainResponse mapea la verificación de cadena.
func ToChainResponse(r *inventory.ChainReport) ChainResponse {
	breaks := make([]ChainBreakResponse, 0, len(r.Breaks))
	for _, b := range r.Breaks {
		breaks = append(breaks, ChainBreakResponse{
			Index: b.Index, MovementID: b.MovementID, ExpectedBefore: b.ExpectedBefore, ActualBefore: b.ActualBefore,
		})
	}
	return ChainResponse{
		ItemID:         r.ItemID,
		Movements:      r.Movements,
		CurrentStock:   r.CurrentStock,
		LastStockAfter: r.LastStockAfter,
		Consistent:     r.Consistent,
		Breaks:         breaks,
	}
}
