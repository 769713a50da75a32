package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo log de movimientos en memoria (solo inserción).
type MovementRepo struct {
	store *Store
	tx    *txState
}

// NewMovementRepository repositorio fuera de transacción.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

// Create agrega el movimiento al log.
func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" || m.CompanyID == "" || m.InventoryItemID == "" {
		return fmt.Errorf("%w: movimiento incompleto", domain.ErrInvalidInput)
	}
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, cloneMovement(m))
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.movements = append(r.store.movements, cloneMovement(m))
	return nil
}

// List movimientos confirmados que cumplen el filtro, por PerformedAt (y orden de inserción).
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	r.store.mu.RLock()
	out := make([]*entity.InventoryMovement, 0)
	for _, m := range r.store.movements {
		if matches(m, f) {
			out = append(out, cloneMovement(m))
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].PerformedAt.Before(out[j].PerformedAt) })
	if f.NewestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Summary totales por tipo en [from, to].
func (r *MovementRepo) Summary(ctx context.Context, companyID string, from, to *time.Time) (*repository.MovementSummary, error) {
	movs, _ := r.List(ctx, repository.MovementFilter{CompanyID: companyID, From: from, To: to})
	sum := &repository.MovementSummary{
		TotalValue: decimal.Zero,
		ByType:     make(map[string]repository.MovementTypeTotals),
	}
	for _, m := range movs {
		sum.TotalMovements++
		sum.TotalValue = sum.TotalValue.Add(m.TotalValue)
		t := sum.ByType[m.MovementType]
		t.Count++
		t.Quantity += m.Quantity
		t.Value = t.Value.Add(m.TotalValue)
		sum.ByType[m.MovementType] = t
	}
	return sum, nil
}

func matches(m *entity.InventoryMovement, f repository.MovementFilter) bool {
	switch {
	case m.CompanyID != f.CompanyID:
		return false
	case f.InventoryItemID != "" && m.InventoryItemID != f.InventoryItemID:
		return false
	case f.FormID != "" && m.FormID != f.FormID:
		return false
	case f.FormSubmissionID != "" && m.FormSubmissionID != f.FormSubmissionID:
		return false
	case f.ReferenceNumber != "" && m.ReferenceNumber != f.ReferenceNumber:
		return false
	case f.PerformedBy != "" && m.PerformedBy != f.PerformedBy:
		return false
	case f.MovementType != "" && m.MovementType != f.MovementType:
		return false
	case f.From != nil && m.PerformedAt.Before(*f.From):
		return false
	case f.To != nil && m.PerformedAt.After(*f.To):
		return false
	}
	return true
}
