package http

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: ítem x", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: ítem x", domain.ErrTenantMismatch), fiber.StatusForbidden, "TENANT_MISMATCH"},
		{domain.ErrInvalidAdjustmentType, fiber.StatusBadRequest, "INVALID_ADJUSTMENT_TYPE"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrInvalidStockLevel, fiber.StatusConflict, "INVALID_STOCK_LEVEL"},
		{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{domain.ErrDuplicate, fiber.StatusConflict, "CONFLICT"},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("", false)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDate("2026-03-10", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *d)

	d, err = parseDate("2026-03-10", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), *d)

	d, err = parseDate("2026-03-10T12:30:00Z", true)
	require.NoError(t, err)
	assert.Equal(t, 12, d.Hour())

	_, err = parseDate("10/03/2026", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
