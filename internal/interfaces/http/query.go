package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// parseDate acepta RFC3339 o YYYY-MM-DD. En fechas sin hora, endOfDay lleva el límite al
// último instante del día para que end_date sea inclusivo.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (use YYYY-MM-DD o RFC3339)", domain.ErrInvalidInput, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// dateRange lee start_date y end_date de la query.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseDate(c.Query("start_date"), false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate(c.Query("end_date"), true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// movementFilter arma el filtro de movimientos a partir de la query.
func movementFilter(c *fiber.Ctx, companyID string) (repository.MovementFilter, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return repository.MovementFilter{}, fmt.Errorf("%w: limit negativo", domain.ErrInvalidInput)
	}
	return repository.MovementFilter{
		CompanyID:        companyID,
		InventoryItemID:  c.Query("item_id"),
		FormID:           c.Query("form_id"),
		FormSubmissionID: c.Query("submission_id"),
		ReferenceNumber:  c.Query("reference_number"),
		PerformedBy:      c.Query("performed_by"),
		MovementType:     c.Query("movement_type"),
		From:             from,
		To:               to,
		NewestFirst:      c.QueryBool("newest_first", false),
		Limit:            limit,
	}, nil
}
