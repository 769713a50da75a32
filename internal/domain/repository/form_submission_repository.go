package repository

import (
	"context"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
)

// FormSubmissionRepository puerto del almacén de envíos. Las escrituras del motor son a nivel
// de campo: nunca reemplazan la fila completa para no pisar escrituras concurrentes de la captura.
type FormSubmissionRepository interface {
	Create(ctx context.Context, submission *entity.FormSubmission) error
	// GetByID devuelve (nil, nil) si no existe o pertenece a otra empresa.
	GetByID(ctx context.Context, companyID, id string) (*entity.FormSubmission, error)
	AppendAdjustment(ctx context.Context, id string, summary entity.AdjustmentSummary) error
	MarkProcessed(ctx context.Context, id, processedBy string, at time.Time) error
	MarkFailed(ctx context.Context, id, notes string, at time.Time) error
}
