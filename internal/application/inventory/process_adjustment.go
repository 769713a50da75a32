package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
	"github.com/shopspring/decimal"
)

// Reintentos ante conflicto de versión (otra instancia modificó el ítem entre lectura y escritura).
const maxConflictRetries = 3

// AdjustmentRequest entrada del motor: un conjunto ordenado de ajustes sobre ítems,
// todos asociados a un envío de formulario existente.
type AdjustmentRequest struct {
	CompanyID        string
	FormSubmissionID string
	FormID           string
	PerformedBy      string
	AdjustmentType   string
	Reason           string
	ReferenceNumber  string
	Notes            string
	Metadata         entity.Payload
	Items            []ItemAdjustment
}

// ItemAdjustment ajuste de un ítem. Basta InventoryItemID o SKU.
// UnitPrice nil = se usa el precio actual del ítem.
type ItemAdjustment struct {
	InventoryItemID string
	SKU             string
	Quantity        int
	UnitPrice       *decimal.Decimal
	FromLocation    string
	ToLocation      string
	ItemMetadata    entity.Payload
}

// AdjustmentResult estado confirmado tras aplicar la solicitud.
type AdjustmentResult struct {
	Movements []*entity.InventoryMovement
	Items     []*entity.InventoryItem
}

// ProcessAdjustmentUseCase motor de ajustes: valida, muta el stock, agrega el movimiento al log
// y actualiza el estado de inventario del envío.
//
// Serialización por ítem: ItemLocker (en orden de clave) + GetForUpdate dentro de la tx
// + versión optimista en Update.
type ProcessAdjustmentUseCase struct {
	txRunner       TxRunner
	itemRepo       repository.InventoryItemRepository
	submissionRepo repository.FormSubmissionRepository
	locker         ItemLocker
	atomic         bool
	now            func() time.Time
	newID          func() string
	log            *logger.Logger
}

// EngineOption configura el motor.
type EngineOption func(*ProcessAdjustmentUseCase)

// WithAtomic true: todos los ítems en una sola transacción. false: una transacción por ítem;
// un fallo deja aplicados los ítems anteriores.
func WithAtomic(atomic bool) EngineOption {
	return func(uc *ProcessAdjustmentUseCase) { uc.atomic = atomic }
}

// WithClock reemplaza time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(uc *ProcessAdjustmentUseCase) { uc.now = now }
}

// NewProcessAdjustmentUseCase construye el motor. itemRepo y submissionRepo operan fuera de la tx
// (resolución de claves de bloqueo y marcado de fallos).
func NewProcessAdjustmentUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	submissionRepo repository.FormSubmissionRepository,
	locker ItemLocker,
	log *logger.Logger,
	opts ...EngineOption,
) *ProcessAdjustmentUseCase {
	uc := &ProcessAdjustmentUseCase{
		txRunner:       txRunner,
		itemRepo:       itemRepo,
		submissionRepo: submissionRepo,
		locker:         locker,
		atomic:         true,
		now:            time.Now,
		newID:          newMovementID,
		log:            log.Component("inventory_engine"),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func newMovementID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ProcessAdjustment aplica la solicitud. El envío debe existir en la empresa (ErrNotFound si no).
// Cualquier error posterior marca el envío como FAILED con el motivo y se devuelve al llamador.
func (uc *ProcessAdjustmentUseCase) ProcessAdjustment(ctx context.Context, req AdjustmentRequest) (*AdjustmentResult, error) {
	sub, err := uc.submissionRepo.GetByID(ctx, req.CompanyID, req.FormSubmissionID)
	if err != nil {
		return nil, fmt.Errorf("obtener envío: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: envío %s", domain.ErrNotFound, req.FormSubmissionID)
	}

	res, err := uc.apply(ctx, req)
	if err != nil {
		uc.markFailed(ctx, sub.ID, err)
		return nil, err
	}

	uc.log.Info().
		Str("company_id", req.CompanyID).
		Str("submission_id", sub.ID).
		Str("adjustment_type", req.AdjustmentType).
		Int("items", len(res.Movements)).
		Msg("ajuste de inventario procesado")
	return res, nil
}

func (uc *ProcessAdjustmentUseCase) apply(ctx context.Context, req AdjustmentRequest) (*AdjustmentResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	keys, err := uc.lockKeys(ctx, req)
	if err != nil {
		return nil, err
	}
	unlock, err := lockAll(ctx, uc.locker, keys)
	if err != nil {
		return nil, fmt.Errorf("bloquear ítems: %w", err)
	}
	defer unlock()

	if uc.atomic {
		return uc.applyAtomic(ctx, req)
	}
	return uc.applyPerItem(ctx, req)
}

// applyAtomic todos los ítems, los resúmenes y el PROCESSED en una sola transacción.
func (uc *ProcessAdjustmentUseCase) applyAtomic(ctx context.Context, req AdjustmentRequest) (*AdjustmentResult, error) {
	var res *AdjustmentResult
	err := uc.runWithRetry(ctx, func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.InventoryMovementRepository,
		submissionRepo repository.FormSubmissionRepository,
	) error {
		res = &AdjustmentResult{}
		for i := range req.Items {
			if err := uc.applyItem(ctx, itemRepo, movRepo, submissionRepo, req, i, res); err != nil {
				return err
			}
		}
		return submissionRepo.MarkProcessed(ctx, req.FormSubmissionID, req.PerformedBy, uc.now())
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// applyPerItem una transacción por ítem; ante un fallo los ítems previos quedan confirmados.
func (uc *ProcessAdjustmentUseCase) applyPerItem(ctx context.Context, req AdjustmentRequest) (*AdjustmentResult, error) {
	res := &AdjustmentResult{}
	for i := range req.Items {
		var step *AdjustmentResult
		err := uc.runWithRetry(ctx, func(
			itemRepo repository.InventoryItemRepository,
			movRepo repository.InventoryMovementRepository,
			submissionRepo repository.FormSubmissionRepository,
		) error {
			step = &AdjustmentResult{}
			return uc.applyItem(ctx, itemRepo, movRepo, submissionRepo, req, i, step)
		})
		if err != nil {
			if i > 0 {
				uc.log.Warn().
					Str("submission_id", req.FormSubmissionID).
					Int("applied", i).
					Int("total", len(req.Items)).
					Msg("ajuste parcial: los ítems anteriores quedan aplicados")
			}
			return nil, err
		}
		res.Movements = append(res.Movements, step.Movements...)
		res.Items = append(res.Items, step.Items...)
	}
	if err := uc.submissionRepo.MarkProcessed(ctx, req.FormSubmissionID, req.PerformedBy, uc.now()); err != nil {
		return nil, fmt.Errorf("marcar envío procesado: %w", err)
	}
	return res, nil
}

func (uc *ProcessAdjustmentUseCase) runWithRetry(ctx context.Context, fn func(
	repository.InventoryItemRepository,
	repository.InventoryMovementRepository,
	repository.FormSubmissionRepository,
) error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		uc.log.Debug().Int("attempt", attempt).Err(err).Msg("conflicto de versión, reintentando")
	}
	return err
}

// applyItem aplica req.Items[idx] con los repositorios de la transacción en curso.
func (uc *ProcessAdjustmentUseCase) applyItem(
	ctx context.Context,
	itemRepo repository.InventoryItemRepository,
	movRepo repository.InventoryMovementRepository,
	submissionRepo repository.FormSubmissionRepository,
	req AdjustmentRequest,
	idx int,
	res *AdjustmentResult,
) error {
	adj := req.Items[idx]

	item, err := lockedItem(ctx, itemRepo, req.CompanyID, adj)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, adj.identifier())
	}
	if item.CompanyID != req.CompanyID {
		return fmt.Errorf("%w: ítem %s", domain.ErrTenantMismatch, item.ID)
	}

	before := item.CurrentStock
	after, err := inventory.StockAfter(req.AdjustmentType, before, adj.Quantity)
	if err != nil {
		return fmt.Errorf("ítem %s: %w", item.SKU, err)
	}
	if inventory.ExceedsMaximum(item, after) {
		uc.log.Warn().
			Str("item_id", item.ID).
			Str("sku", item.SKU).
			Int("stock", after).
			Int("maximum", *item.MaximumStock).
			Msg("stock por encima del máximo")
	}

	unitPrice := item.UnitPrice
	if adj.UnitPrice != nil {
		unitPrice = *adj.UnitPrice
	}
	now := uc.now()

	inventory.ApplyStock(item, after, now)
	if err := itemRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("actualizar ítem %s: %w", item.SKU, err)
	}

	mov := &entity.InventoryMovement{
		ID:               uc.newID(),
		CompanyID:        req.CompanyID,
		InventoryItemID:  item.ID,
		FormID:           req.FormID,
		FormSubmissionID: req.FormSubmissionID,
		MovementType:     req.AdjustmentType,
		Quantity:         adj.Quantity,
		UnitPrice:        unitPrice,
		TotalValue:       inventory.LineValue(adj.Quantity, unitPrice),
		StockBefore:      before,
		StockAfter:       after,
		ReferenceNumber:  req.ReferenceNumber,
		ReferenceType:    req.Reason,
		Notes:            req.Notes,
		FromLocation:     adj.FromLocation,
		ToLocation:       adj.ToLocation,
		PerformedBy:      req.PerformedBy,
		PerformedAt:      now,
		Metadata:         req.Metadata,
		CreatedAt:        now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return fmt.Errorf("registrar movimiento: %w", err)
	}

	summary := entity.AdjustmentSummary{
		ItemID:         item.ID,
		SKU:            item.SKU,
		ItemName:       item.Name,
		Quantity:       adj.Quantity,
		AdjustmentType: req.AdjustmentType,
		Reason:         req.Reason,
		FormData:       adj.ItemMetadata,
		Processed:      true,
	}
	if err := submissionRepo.AppendAdjustment(ctx, req.FormSubmissionID, summary); err != nil {
		return fmt.Errorf("registrar resumen en envío: %w", err)
	}

	res.Movements = append(res.Movements, mov)
	res.Items = append(res.Items, item)
	return nil
}

// lockedItem obtiene el ítem con bloqueo de fila; por SKU si no llega ID.
func lockedItem(ctx context.Context, itemRepo repository.InventoryItemRepository, companyID string, adj ItemAdjustment) (*entity.InventoryItem, error) {
	id := adj.InventoryItemID
	if id == "" {
		found, err := itemRepo.GetByCompanyAndSKU(ctx, companyID, adj.SKU)
		if err != nil {
			return nil, fmt.Errorf("buscar ítem por SKU: %w", err)
		}
		if found == nil {
			return nil, nil
		}
		id = found.ID
	}
	item, err := itemRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bloquear ítem %s: %w", id, err)
	}
	return item, nil
}

// lockKeys claves de bloqueo de los ítems de la solicitud. Los SKU que no resuelven se omiten:
// el bucle de aplicación devolverá ErrNotFound en su posición.
func (uc *ProcessAdjustmentUseCase) lockKeys(ctx context.Context, req AdjustmentRequest) ([]string, error) {
	keys := make([]string, 0, len(req.Items))
	for _, adj := range req.Items {
		if adj.InventoryItemID != "" {
			keys = append(keys, itemLockKey(adj.InventoryItemID))
			continue
		}
		item, err := uc.itemRepo.GetByCompanyAndSKU(ctx, req.CompanyID, adj.SKU)
		if err != nil {
			return nil, fmt.Errorf("resolver SKU %s: %w", adj.SKU, err)
		}
		if item != nil {
			keys = append(keys, itemLockKey(item.ID))
		}
	}
	return keys, nil
}

// markFailed registra el fallo en el envío. Usa un contexto sin cancelación: el motivo debe
// quedar persistido aunque la solicitud original haya expirado.
func (uc *ProcessAdjustmentUseCase) markFailed(ctx context.Context, submissionID string, cause error) {
	notes := FailureNote(cause)
	if err := uc.submissionRepo.MarkFailed(context.WithoutCancel(ctx), submissionID, notes, uc.now()); err != nil {
		uc.log.Error().Err(err).Str("submission_id", submissionID).Msg("no se pudo marcar el envío como fallido")
	}
	uc.log.Warn().Err(cause).Str("submission_id", submissionID).Msg("ajuste de inventario fallido")
}

// FailureNote texto guardado en processingNotes cuando el procesamiento falla.
func FailureNote(cause error) string {
	return "Inventory processing failed: " + cause.Error()
}

func validateRequest(req AdjustmentRequest) error {
	if !entity.ValidMovementType(req.AdjustmentType) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAdjustmentType, req.AdjustmentType)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: la solicitud no tiene ítems", domain.ErrInvalidInput)
	}
	for i, adj := range req.Items {
		if adj.InventoryItemID == "" && adj.SKU == "" {
			return fmt.Errorf("%w: ítem %d sin id ni SKU", domain.ErrInvalidInput, i)
		}
		switch {
		case req.AdjustmentType == entity.MovementTypeADJUSTMENT && adj.Quantity < 0:
			return fmt.Errorf("%w: ítem %s: cantidad de ajuste negativa", domain.ErrInvalidInput, adj.identifier())
		case req.AdjustmentType != entity.MovementTypeADJUSTMENT && adj.Quantity <= 0:
			return fmt.Errorf("%w: ítem %s: la cantidad debe ser positiva", domain.ErrInvalidInput, adj.identifier())
		}
		if adj.UnitPrice != nil && adj.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: ítem %s: precio unitario negativo", domain.ErrInvalidInput, adj.identifier())
		}
	}
	return nil
}

func (a ItemAdjustment) identifier() string {
	if a.InventoryItemID != "" {
		return a.InventoryItemID
	}
	return a.SKU
}
