package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/affluo-inventario/internal/application/dto"
	"github.com/jhoicas/affluo-inventario/internal/domain"
)

// respondError traduce errores de dominio a status HTTP con cuerpo {code, message}.
func respondError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrTenantMismatch):
		return fiber.StatusForbidden, "TENANT_MISMATCH"
	case errors.Is(err, domain.ErrInvalidAdjustmentType):
		return fiber.StatusBadRequest, "INVALID_ADJUSTMENT_TYPE"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidStockLevel):
		return fiber.StatusConflict, "INVALID_STOCK_LEVEL"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
