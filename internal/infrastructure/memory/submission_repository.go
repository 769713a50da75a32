package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

var _ repository.FormSubmissionRepository = (*SubmissionRepo)(nil)

// SubmissionRepo envíos en memoria. Las escrituras del motor modifican solo sus campos.
type SubmissionRepo struct {
	store *Store
	tx    *txState
}

// NewSubmissionRepository repositorio fuera de transacción.
func NewSubmissionRepository(store *Store) *SubmissionRepo {
	return &SubmissionRepo{store: store}
}

// Create inserta el envío.
func (r *SubmissionRepo) Create(_ context.Context, sub *entity.FormSubmission) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.submissions[sub.ID]; ok {
		return fmt.Errorf("%w: envío %s", domain.ErrDuplicate, sub.ID)
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	r.store.submissions[sub.ID] = sub.Clone()
	return nil
}

// GetByID devuelve el envío confirmado si pertenece a la empresa.
func (r *SubmissionRepo) GetByID(_ context.Context, companyID, id string) (*entity.FormSubmission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sub, ok := r.store.submissions[id]
	if !ok || sub.CompanyID != companyID {
		return nil, nil
	}
	return sub.Clone(), nil
}

// AppendAdjustment agrega un resumen a la lista de ajustes del envío.
func (r *SubmissionRepo) AppendAdjustment(_ context.Context, id string, summary entity.AdjustmentSummary) error {
	return r.update(id, func(s *entity.FormSubmission) {
		s.InventoryAdjustments = append(s.InventoryAdjustments, summary)
	})
}

// MarkProcessed fija el estado PROCESSED y limpia la nota de un fallo anterior.
func (r *SubmissionRepo) MarkProcessed(_ context.Context, id, processedBy string, at time.Time) error {
	return r.update(id, func(s *entity.FormSubmission) {
		t := at
		s.InventoryStatus = entity.InventoryStatusProcessed
		s.ProcessedAt = &t
		s.ProcessedBy = processedBy
		s.ProcessingNotes = ""
	})
}

// MarkFailed fija el estado FAILED con el motivo.
func (r *SubmissionRepo) MarkFailed(_ context.Context, id, notes string, at time.Time) error {
	return r.update(id, func(s *entity.FormSubmission) {
		t := at
		s.InventoryStatus = entity.InventoryStatusFailed
		s.ProcessedAt = &t
		s.ProcessingNotes = notes
	})
}

func (r *SubmissionRepo) update(id string, apply func(*entity.FormSubmission)) error {
	if r.tx != nil {
		r.tx.subOps = append(r.tx.subOps, submissionOp{id: id, apply: apply})
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sub, ok := r.store.submissions[id]
	if !ok {
		return fmt.Errorf("%w: envío %s", domain.ErrNotFound, id)
	}
	apply(sub)
	return nil
}
