package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

var _ repository.FormSubmissionRepository = (*FormSubmissionRepo)(nil)

// FormSubmissionRepo envíos de formularios sobre PostgreSQL. Las escrituras del motor actualizan
// solo sus columnas; el arreglo de ajustes crece con el operador jsonb ||.
type FormSubmissionRepo struct {
	q Querier
}

// NewFormSubmissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFormSubmissionRepository(q Querier) *FormSubmissionRepo {
	return &FormSubmissionRepo{q: q}
}

// Create persiste un envío.
func (r *FormSubmissionRepo) Create(ctx context.Context, sub *entity.FormSubmission) error {
	adjustments := sub.InventoryAdjustments
	if adjustments == nil {
		adjustments = []entity.AdjustmentSummary{}
	}
	query := `
		INSERT INTO form_submissions (id, company_id, form_id, submitted_by, submitted_at, data, status,
			inventory_status, processed_at, processed_by, processing_notes, inventory_adjustments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		sub.ID, sub.CompanyID, sub.FormID, sub.SubmittedBy, sub.SubmittedAt, sub.Data, sub.Status,
		sub.InventoryStatus, sub.ProcessedAt, sub.ProcessedBy, sub.ProcessingNotes, adjustments,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: envío %s", domain.ErrDuplicate, sub.ID)
		}
		return fmt.Errorf("create form submission: %w", err)
	}
	return nil
}

// GetByID obtiene el envío si pertenece a la empresa; (nil, nil) si no.
func (r *FormSubmissionRepo) GetByID(ctx context.Context, companyID, id string) (*entity.FormSubmission, error) {
	query := `
		SELECT id, company_id, form_id, submitted_by, submitted_at, data, status,
			inventory_status, processed_at, processed_by, processing_notes, inventory_adjustments
		FROM form_submissions WHERE id = $1 AND company_id = $2`
	var s entity.FormSubmission
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&s.ID, &s.CompanyID, &s.FormID, &s.SubmittedBy, &s.SubmittedAt, &s.Data, &s.Status,
		&s.InventoryStatus, &s.ProcessedAt, &s.ProcessedBy, &s.ProcessingNotes, &s.InventoryAdjustments,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get form submission: %w", err)
	}
	return &s, nil
}

// AppendAdjustment agrega un resumen al final de inventory_adjustments.
func (r *FormSubmissionRepo) AppendAdjustment(ctx context.Context, id string, summary entity.AdjustmentSummary) error {
	b, err := json.Marshal([]entity.AdjustmentSummary{summary})
	if err != nil {
		return fmt.Errorf("serializar resumen: %w", err)
	}
	return r.exec(ctx, `
		UPDATE form_submissions SET inventory_adjustments = inventory_adjustments || $2::jsonb
		WHERE id = $1`, id, string(b))
}

// MarkProcessed deja el envío en PROCESSED y limpia notas de fallos anteriores.
func (r *FormSubmissionRepo) MarkProcessed(ctx context.Context, id, processedBy string, at time.Time) error {
	return r.exec(ctx, `
		UPDATE form_submissions
		SET inventory_status = $2, processed_at = $3, processed_by = $4, processing_notes = ''
		WHERE id = $1`, id, entity.InventoryStatusProcessed, at, processedBy)
}

// MarkFailed deja el envío en FAILED con el motivo.
func (r *FormSubmissionRepo) MarkFailed(ctx context.Context, id, notes string, at time.Time) error {
	return r.exec(ctx, `
		UPDATE form_submissions
		SET inventory_status = $2, processed_at = $3, processing_notes = $4
		WHERE id = $1`, id, entity.InventoryStatusFailed, at, notes)
}

func (r *FormSubmissionRepo) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update form submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: envío %v", domain.ErrNotFound, args[0])
	}
	return nil
}
