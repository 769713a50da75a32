package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00",
		"999.5":     "999,50",
		"58499.55":  "58.499,55",
		"1000000":   "1.000.000,00",
		"-1234.567": "-1.234,57",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRenderStockReport(t *testing.T) {
	rep := &inventory.StockReport{
		CompanyID:   "company1",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Summary: &repository.StockSummary{
			TotalItems: 2, TotalUnits: 5, TotalValue: decimal.RequireFromString("6499.95"),
			LowStockItems: 1, OutOfStockItems: 1,
		},
		LowStock: []*entity.InventoryItem{
			{SKU: "LAP-001", Name: "Laptop Pro X1", CurrentStock: 5, MinimumStock: 10, TotalValue: decimal.RequireFromString("6499.95")},
		},
		OutOfStock: []*entity.InventoryItem{
			{SKU: "BOK-005", Name: "Programming Guide", MinimumStock: 10, TotalValue: decimal.Zero},
		},
	}

	b, err := NewMarotoPDFGenerator().RenderStockReport(context.Background(), rep)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
