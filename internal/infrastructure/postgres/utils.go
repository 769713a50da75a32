package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/affluo-inventario/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isRetryable deadlock_detected (40P01) o serialization_failure (40001).
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40P01" || pgErr.Code == "40001"
}

// asConflict traduce los abortos reintentables de PostgreSQL a domain.ErrConflict; el resto pasa igual.
func asConflict(err error) error {
	if err == nil || errors.Is(err, domain.ErrConflict) || !isRetryable(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}
