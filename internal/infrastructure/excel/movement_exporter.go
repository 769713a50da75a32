// Package excel exporta el log de movimientos a XLSX.
package excel

import (
	"context"
	"fmt"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

var _ inventory.MovementExporter = (*MovementExporter)(nil)

const sheetName = "Movimientos"

var headers = []string{
	"Fecha", "SKU", "Ítem", "Tipo", "Cantidad", "Stock antes", "Stock después",
	"Precio unitario", "Valor total", "Referencia", "Motivo", "Envío", "Realizado por", "Notas",
}

// MovementExporter genera el libro con una fila por movimiento.
type MovementExporter struct{}

// NewMovementExporter construye el exportador.
func NewMovementExporter() *MovementExporter { return &MovementExporter{} }

// ExportMovements escribe los movimientos en el orden recibido. items resuelve SKU y nombre;
// un ítem ausente (p. ej. inactivo) deja esas columnas con su id.
func (e *MovementExporter) ExportMovements(_ context.Context, movs []*entity.InventoryMovement, items map[string]*entity.InventoryItem) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("excel: cabecera: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, header); err != nil {
		return nil, fmt.Errorf("excel: estilo cabecera: %w", err)
	}

	for i, m := range movs {
		sku, name := m.InventoryItemID, m.InventoryItemID
		if it, ok := items[m.InventoryItemID]; ok {
			sku, name = it.SKU, it.Name
		}
		unitPrice, _ := m.UnitPrice.Float64()
		total, _ := m.TotalValue.Float64()
		values := []any{
			m.PerformedAt.Format("2006-01-02 15:04:05"), sku, name, m.MovementType, m.Quantity,
			m.StockBefore, m.StockAfter, unitPrice, total, m.ReferenceNumber, m.ReferenceType,
			m.FormSubmissionID, m.PerformedBy, m.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
