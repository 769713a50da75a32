package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/affluo-inventario/internal/application/dto"
	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
)

// InventoryHandler maneja ajustes de inventario y consultas de ítems/movimientos (protegido).
type InventoryHandler struct {
	engine    *inventory.ProcessAdjustmentUseCase
	processor *inventory.SubmissionProcessor
	reports   *inventory.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.ProcessAdjustmentUseCase, processor *inventory.SubmissionProcessor, reports *inventory.ReportUseCase) *InventoryHandler {
	return &InventoryHandler{engine: engine, processor: processor, reports: reports}
}

// ProcessAdjustment godoc
// @Summary      Aplicar ajuste de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "form_submission_id, adjustment_type (IN|OUT|ADJUSTMENT), items"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) ProcessAdjustment(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := dto.Validate(in); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	res, err := h.engine.ProcessAdjustment(c.Context(), in.ToCommand(companyID, userID))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAdjustmentResponse(res))
}

// ProcessSubmission godoc
// @Summary      Procesar envío de formulario
// @Description  Extrae los ajustes del envío almacenado y los aplica. Un formulario sin efecto en inventario responde skipped=true.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.SubmissionProcessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/submissions/{id}/process [post]
func (h *InventoryHandler) ProcessSubmission(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.processor.Process(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSubmissionProcessResponse(out))
}

// ListItems GET /api/inventory/items
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	items, err := h.reports.ListItems(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToItemResponses(items))
}

// LowStock GET /api/inventory/items/low-stock
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	items, err := h.reports.LowStock(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToItemResponses(items))
}

// OutOfStock GET /api/inventory/items/out-of-stock
func (h *InventoryHandler) OutOfStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	items, err := h.reports.OutOfStock(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToItemResponses(items))
}

// GetItem GET /api/inventory/items/:id
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	item, err := h.reports.GetItem(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// ItemMovements GET /api/inventory/items/:id/movements (más reciente primero)
func (h *InventoryHandler) ItemMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	movs, err := h.reports.ItemMovements(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponses(movs))
}

// ItemChain GET /api/inventory/items/:id/chain
func (h *InventoryHandler) ItemChain(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	report, err := h.reports.VerifyItemChain(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToChainResponse(report))
}

// ListMovements godoc
// @Summary      Consultar movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        start_date        query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        end_date          query  string  false  "YYYY-MM-DD (inclusivo) o RFC3339"
// @Param        item_id           query  string  false  "ítem"
// @Param        form_id           query  string  false  "formulario"
// @Param        submission_id     query  string  false  "envío"
// @Param        reference_number  query  string  false  "referencia"
// @Param        performed_by      query  string  false  "usuario"
// @Param        movement_type     query  string  false  "IN | OUT | ADJUSTMENT"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	filter, err := movementFilter(c, companyID)
	if err != nil {
		return respondError(c, err)
	}
	movs, err := h.reports.Movements(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponses(movs))
}

// SubmissionMovements GET /api/inventory/submissions/:id/movements
func (h *InventoryHandler) SubmissionMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	movs, err := h.reports.SubmissionMovements(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponses(movs))
}
