package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/affluo-inventario/internal/application/dto"
	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ReportHandler resúmenes y descargas de inventario (protegido).
type ReportHandler struct {
	reports *inventory.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *inventory.ReportUseCase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// StockSummary godoc
// @Summary      Resumen de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/inventory/reports/stock-summary [get]
func (h *ReportHandler) StockSummary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	s, err := h.reports.StockSummary(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockSummaryResponse(s))
}

// MovementSummary godoc
// @Summary      Resumen de movimientos por tipo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusivo) o RFC3339"
// @Success      200  {object}  dto.MovementSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/reports/movement-summary [get]
func (h *ReportHandler) MovementSummary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	from, to, err := dateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	s, err := h.reports.MovementSummary(c.Context(), companyID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementSummaryResponse(s, from, to))
}

// ExportMovements GET /api/inventory/reports/movements.xlsx (mismos filtros que /movements)
func (h *ReportHandler) ExportMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	filter, err := movementFilter(c, companyID)
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.reports.ExportMovements(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, mimeXLSX, "movimientos", "xlsx", data)
}

// StockSummaryPDF GET /api/inventory/reports/stock-summary.pdf
func (h *ReportHandler) StockSummaryPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	data, err := h.reports.StockReportPDF(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, mimePDF, "resumen-stock", "pdf", data)
}

func sendFile(c *fiber.Ctx, mime, name, ext string, data []byte) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s-%s.%s"`, name, time.Now().Format("20060102"), ext))
	return c.Send(data)
}
