package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Se envuelven con fmt.Errorf("%w: ...") para adjuntar el motivo; los llamadores usan errors.Is.
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrTenantMismatch        = errors.New("el recurso pertenece a otra empresa")
	ErrInvalidAdjustmentType = errors.New("tipo de ajuste inválido")
	ErrInvalidStockLevel     = errors.New("nivel de stock inválido")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
)
