// Package memory implementa los repositorios en memoria del proceso. Las transacciones
// acumulan escrituras y las confirman juntas al final, verificando versiones de ítems.
package memory

import (
	"fmt"
	"sync"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
)

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu          sync.RWMutex
	items       map[string]*entity.InventoryItem
	movements   []*entity.InventoryMovement // orden de inserción
	submissions map[string]*entity.FormSubmission
	forms       map[string]*entity.Form
	lists       map[string]*entity.List
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:       make(map[string]*entity.InventoryItem),
		submissions: make(map[string]*entity.FormSubmission),
		forms:       make(map[string]*entity.Form),
		lists:       make(map[string]*entity.List),
	}
}

// txState escrituras pendientes de una transacción.
type txState struct {
	items     map[string]*entity.InventoryItem
	baseVer   map[string]int // versión almacenada cuando se leyó el ítem por primera vez en la tx
	movements []*entity.InventoryMovement
	subOps    []submissionOp
}

type submissionOp struct {
	id    string
	apply func(*entity.FormSubmission)
}

func newTxState() *txState {
	return &txState{
		items:   make(map[string]*entity.InventoryItem),
		baseVer: make(map[string]int),
	}
}

// commit aplica la transacción si ningún ítem cambió desde que la tx lo leyó.
func (s *Store) commit(tx *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, base := range tx.baseVer {
		cur, ok := s.items[id]
		if !ok || cur.Version != base {
			return fmt.Errorf("%w: el ítem %s cambió durante la transacción", domain.ErrConflict, id)
		}
	}
	for _, op := range tx.subOps {
		if _, ok := s.submissions[op.id]; !ok {
			return fmt.Errorf("%w: envío %s", domain.ErrNotFound, op.id)
		}
	}

	for id, it := range tx.items {
		s.items[id] = it.Clone()
	}
	for _, m := range tx.movements {
		s.movements = append(s.movements, cloneMovement(m))
	}
	for _, op := range tx.subOps {
		op.apply(s.submissions[op.id])
	}
	return nil
}

func cloneMovement(m *entity.InventoryMovement) *entity.InventoryMovement {
	c := *m
	if m.AverageCost != nil {
		v := *m.AverageCost
		c.AverageCost = &v
	}
	return &c
}
