package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
)

// Nota de los ajustes generados automáticamente desde un envío.
const autoProcessedNote = "Auto-processed from form submission"

// FormReader obtiene el esquema de un formulario (servicio de formularios/listas).
// Devuelve domain.ErrNotFound si no existe en la empresa.
type FormReader interface {
	GetForm(ctx context.Context, companyID, formID string) (*entity.Form, error)
}

// Adjuster aplica una solicitud de ajuste (implementado por ProcessAdjustmentUseCase).
type Adjuster interface {
	ProcessAdjustment(ctx context.Context, req AdjustmentRequest) (*AdjustmentResult, error)
}

// SubmissionOutcome resultado de procesar un envío almacenado.
// Result es nil cuando el envío no tiene efecto en inventario (Skipped).
type SubmissionOutcome struct {
	SubmissionID   string
	Skipped        bool
	SkipReason     string
	AdjustmentType string
	Warnings       []ExtractionWarning
	Result         *AdjustmentResult
}

// SubmissionProcessor lleva un envío del almacén al motor: lee el formulario, extrae los
// ajustes y, si hay alguno, invoca el motor con la solicitud construida.
type SubmissionProcessor struct {
	submissionRepo repository.FormSubmissionRepository
	forms          FormReader
	extractor      *Extractor
	engine         Adjuster
	locker         ItemLocker
	log            *logger.Logger
}

// NewSubmissionProcessor construye el procesador.
func NewSubmissionProcessor(
	submissionRepo repository.FormSubmissionRepository,
	forms FormReader,
	extractor *Extractor,
	engine Adjuster,
	locker ItemLocker,
	log *logger.Logger,
) *SubmissionProcessor {
	return &SubmissionProcessor{
		submissionRepo: submissionRepo,
		forms:          forms,
		extractor:      extractor,
		engine:         engine,
		locker:         locker,
		log:            log.Component("submission_processor"),
	}
}

// Process procesa el envío submissionID de la empresa. Un envío ya PROCESSED devuelve
// domain.ErrConflict para no duplicar movimientos. El estado se lee con la clave del envío
// tomada, de modo que dos llamadas simultáneas no pasen ambas la verificación.
func (p *SubmissionProcessor) Process(ctx context.Context, companyID, submissionID string) (*SubmissionOutcome, error) {
	unlock, err := p.locker.Lock(ctx, submissionLockKey(submissionID))
	if err != nil {
		return nil, fmt.Errorf("bloquear envío %s: %w", submissionID, err)
	}
	defer unlock()

	sub, err := p.submissionRepo.GetByID(ctx, companyID, submissionID)
	if err != nil {
		return nil, fmt.Errorf("obtener envío: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: envío %s", domain.ErrNotFound, submissionID)
	}
	if sub.InventoryStatus == entity.InventoryStatusProcessed {
		return nil, fmt.Errorf("%w: el envío %s ya fue procesado", domain.ErrConflict, submissionID)
	}

	form, err := p.forms.GetForm(ctx, companyID, sub.FormID)
	if err != nil {
		return nil, err
	}

	ext, err := p.extractor.Extract(ctx, form, sub)
	if err != nil {
		return nil, err
	}
	outcome := &SubmissionOutcome{
		SubmissionID:   sub.ID,
		AdjustmentType: ext.AdjustmentType,
		Warnings:       ext.Warnings,
	}
	switch {
	case !ext.Relevant:
		outcome.Skipped = true
		outcome.SkipReason = "el formulario no afecta inventario"
		p.log.Info().Str("form_id", form.ID).Str("submission_id", sub.ID).Msg(outcome.SkipReason)
		return outcome, nil
	case len(ext.Items) == 0:
		outcome.Skipped = true
		outcome.SkipReason = "el envío no contiene ajustes de inventario"
		p.log.Info().Str("submission_id", sub.ID).Int("warnings", len(ext.Warnings)).Msg(outcome.SkipReason)
		return outcome, nil
	}

	res, err := p.engine.ProcessAdjustment(ctx, BuildSubmissionRequest(sub, ext))
	if err != nil {
		return nil, err
	}
	outcome.Result = res
	return outcome, nil
}

// BuildSubmissionRequest arma la solicitud del motor a partir del envío y la extracción.
func BuildSubmissionRequest(sub *entity.FormSubmission, ext *Extraction) AdjustmentRequest {
	return AdjustmentRequest{
		CompanyID:        sub.CompanyID,
		FormSubmissionID: sub.ID,
		FormID:           sub.FormID,
		PerformedBy:      sub.SubmittedBy,
		AdjustmentType:   ext.AdjustmentType,
		Reason:           ReasonFor(ext.AdjustmentType),
		ReferenceNumber:  SubmissionReference(sub.ID),
		Notes:            autoProcessedNote,
		Metadata:         sub.Data,
		Items:            ext.Items,
	}
}

// ReasonFor motivo estándar según el tipo de ajuste.
func ReasonFor(adjustmentType string) string {
	switch adjustmentType {
	case entity.MovementTypeIN:
		return entity.ReasonPurchaseReceiving
	case entity.MovementTypeOUT:
		return entity.ReasonSaleShipping
	default:
		return entity.ReasonAdjustment
	}
}

// SubmissionReference número de referencia "FS-" + primeros 8 caracteres del id en mayúsculas.
func SubmissionReference(submissionID string) string {
	id := submissionID
	if len(id) > 8 {
		id = id[:8]
	}
	return "FS-" + strings.ToUpper(id)
}
