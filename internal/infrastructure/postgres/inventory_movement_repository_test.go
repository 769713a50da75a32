package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_SoloEmpresa(t *testing.T) {
	r := NewInventoryMovementRepository(nil)

	sql, args, err := r.listQuery(repository.MovementFilter{CompanyID: "c1"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM inventory_movements WHERE (company_id = $1)")
	assert.Contains(t, sql, "ORDER BY performed_at, seq")
	assert.NotContains(t, sql, "LIMIT")
	assert.Equal(t, []any{"c1"}, args)
}

func TestListQuery_TodosLosFiltros(t *testing.T) {
	r := NewInventoryMovementRepository(nil)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	sql, args, err := r.listQuery(repository.MovementFilter{
		CompanyID:        "c1",
		InventoryItemID:  "item-1",
		FormSubmissionID: "sub-1",
		MovementType:     "OUT",
		From:             &from,
		To:               &to,
		NewestFirst:      true,
		Limit:            10,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "(company_id = $1 AND performed_at >= $2 AND performed_at <= $3)")
	assert.Contains(t, sql, "inventory_item_id = $4")
	assert.Contains(t, sql, "form_submission_id = $5")
	assert.Contains(t, sql, "movement_type = $6")
	assert.Contains(t, sql, "ORDER BY performed_at DESC, seq DESC")
	assert.Contains(t, sql, "LIMIT 10")
	assert.Equal(t, []any{"c1", from, to, "item-1", "sub-1", "OUT"}, args)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("conexión cerrada")))
}

func TestAsConflict(t *testing.T) {
	deadlock := fmt.Errorf("bloquear ítem: %w", &pgconn.PgError{Code: "40P01"})
	err := asConflict(deadlock)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "40P01")

	assert.ErrorIs(t, asConflict(&pgconn.PgError{Code: "40001"}), domain.ErrConflict)

	fk := &pgconn.PgError{Code: "23503"}
	assert.Same(t, fk, asConflict(fk))
	assert.NoError(t, asConflict(nil))
	stock := fmt.Errorf("%w: sin stock", domain.ErrInvalidStockLevel)
	assert.Equal(t, stock, asConflict(stock))
}
