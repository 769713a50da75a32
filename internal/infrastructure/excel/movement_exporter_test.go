package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportMovements(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	movs := []*entity.InventoryMovement{
		{
			ID: "m1", InventoryItemID: "item-1", MovementType: entity.MovementTypeOUT, Quantity: 40,
			StockBefore: 45, StockAfter: 5, UnitPrice: decimal.RequireFromString("1299.99"),
			TotalValue: decimal.RequireFromString("51999.6"), ReferenceNumber: "FS-ABC", PerformedAt: at,
		},
		{ID: "m2", InventoryItemID: "gone", MovementType: entity.MovementTypeIN, Quantity: 1, StockAfter: 1, PerformedAt: at},
	}
	items := map[string]*entity.InventoryItem{"item-1": {ID: "item-1", SKU: "LAP-001", Name: "Laptop Pro X1"}}

	b, err := NewMovementExporter().ExportMovements(context.Background(), movs, items)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"2026-03-01 09:30:00", "LAP-001", "Laptop Pro X1", "OUT", "40", "45", "5"}, rows[1][:7])
	assert.Equal(t, "FS-ABC", rows[1][9])
	assert.Equal(t, "gone", rows[2][1])
}
