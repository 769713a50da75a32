// Package pdf genera el reporte de stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa │ Fecha de generación                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ítems / unidades / valor / bajo stock / agotados   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA BAJO STOCK: SKU | Nombre | Stock | Mínimo | Valor     │
//	│  TABLA AGOTADOS:   SKU | Nombre | Stock | Mínimo | Valor     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.StockReportRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.StockReportRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// RenderStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderStockReport(_ context.Context, rep *inventory.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("ÍTEMS CON BAJO STOCK", colorPrimary))
	m.AddRows(itemRows(rep.LowStock)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("ÍTEMS AGOTADOS", colorAlert))
	m.AddRows(itemRows(rep.OutOfStock)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y fecha de generación (der).
func headerRow(rep *inventory.StockReport) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Empresa: "+rep.CompanyID, props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// summaryRow: agregados del stock activo.
func summaryRow(rep *inventory.StockReport) core.Row {
	s := rep.Summary
	cell := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 5}),
		)
	}
	return row.New(12).Add(
		cell("Ítems", fmt.Sprint(s.TotalItems)),
		cell("Unidades", fmt.Sprint(s.TotalUnits)),
		col.New(4).Add(
			text.New("Valor total", props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New("$"+formatMoney(s.TotalValue), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 5}),
		),
		cell("Bajo stock", fmt.Sprint(s.LowStockItems)),
		cell("Agotados", fmt.Sprint(s.OutOfStockItems)),
	)
}

func sectionTitle(title string, color *props.Color) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: color, Top: 2}),
	))
}

// itemRows: cabecera + una fila por ítem, o una leyenda si no hay.
func itemRows(items []*entity.InventoryItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin ítems.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		))}
	}
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	rows := []core.Row{row.New(6).Add(
		h("SKU", 2, align.Left),
		h("Nombre", 5, align.Left),
		h("Stock", 1, align.Center),
		h("Mínimo", 1, align.Center),
		h("Valor", 3, align.Right),
	)}
	for _, it := range items {
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(it.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(nonEmpty(it.Name, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(it.CurrentStock), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprint(it.MinimumStock), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New("$"+formatMoney(it.TotalValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney puntos de miles y coma decimal con dos decimales.
// Ej: 58499.55 → "58.499,55", -1000 → "-1.000,00"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
