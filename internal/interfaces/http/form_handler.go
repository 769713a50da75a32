package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/affluo-inventario/internal/application/catalog"
	"github.com/jhoicas/affluo-inventario/internal/application/dto"
)

// FormHandler lectura de formularios y listas para el frontend (protegido).
type FormHandler struct {
	catalog *catalog.Service
}

// NewFormHandler construye el handler.
func NewFormHandler(catalog *catalog.Service) *FormHandler {
	return &FormHandler{catalog: catalog}
}

// Render godoc
// @Summary      Formulario listo para renderizar
// @Description  Campos ordenados; las opciones de campos con origen en lista vienen resueltas.
// @Tags         forms
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del formulario"
// @Success      200  {object}  dto.FormResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/forms/{id}/render [get]
func (h *FormHandler) Render(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	form, err := h.catalog.FormForRendering(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToFormResponse(form))
}

// ListFieldValues GET /api/lists/:id/fields/:field/values
func (h *FormHandler) ListFieldValues(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	values, err := h.catalog.GetListFieldValues(c.Context(), companyID, c.Params("id"), c.Params("field"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"values": values})
}
