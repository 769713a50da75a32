package memory

import (
	"context"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con repositorios atados a una transacción en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn; si devuelve nil confirma las escrituras, si no las descarta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	movRepo repository.InventoryMovementRepository,
	submissionRepo repository.FormSubmissionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := newTxState()
	if err := fn(
		&ItemRepo{store: r.store, tx: tx},
		&MovementRepo{store: r.store, tx: tx},
		&SubmissionRepo{store: r.store, tx: tx},
	); err != nil {
		return err
	}
	return r.store.commit(tx)
}
