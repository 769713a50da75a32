package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, company_id, sku, name, description, category, unit_price, cost_price, supplier,
	current_stock, minimum_stock, maximum_stock, unit_of_measure, warehouse, location, status,
	total_value, last_movement_date, total_movements, list_id, list_item_id, custom_fields,
	active, version, created_by, created_at, updated_at`

// InventoryItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

// Create persiste un ítem nuevo con versión 1.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	item.Version = 1
	query := `INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.CompanyID, item.SKU, item.Name, item.Description, item.Category,
		item.UnitPrice, item.CostPrice, item.Supplier,
		item.CurrentStock, item.MinimumStock, item.MaximumStock, item.UnitOfMeasure, item.Warehouse, item.Location, item.Status,
		item.TotalValue, item.LastMovementDate, item.TotalMovements, item.ListID, item.ListItemID, item.CustomFields,
		item.Active, item.Version, item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ítem %s / SKU %s", domain.ErrDuplicate, item.ID, item.SKU)
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetByCompanyAndSKU obtiene un ítem por (empresa, SKU).
func (r *InventoryItemRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE company_id = $1 AND sku = $2`, companyID, sku)
}

// GetForUpdate lee el ítem con bloqueo de fila. Solo tiene efecto dentro de una transacción.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
}

// Update escribe los campos mutables si la versión coincide e incrementa la versión.
func (r *InventoryItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			name = $3, description = $4, category = $5, unit_price = $6, cost_price = $7, supplier = $8,
			current_stock = $9, minimum_stock = $10, maximum_stock = $11, unit_of_measure = $12,
			warehouse = $13, location = $14, status = $15, total_value = $16, last_movement_date = $17,
			total_movements = $18, list_id = $19, list_item_id = $20, custom_fields = $21, active = $22,
			version = version + 1, updated_at = $23
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Version,
		item.Name, item.Description, item.Category, item.UnitPrice, item.CostPrice, item.Supplier,
		item.CurrentStock, item.MinimumStock, item.MaximumStock, item.UnitOfMeasure,
		item.Warehouse, item.Location, item.Status, item.TotalValue, item.LastMovementDate,
		item.TotalMovements, item.ListID, item.ListItemID, item.CustomFields, item.Active,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ítem %s modificado concurrentemente (versión %d)", domain.ErrConflict, item.ID, item.Version)
	}
	item.Version++
	return nil
}

// ListByCompany ítems activos de la empresa ordenados por SKU.
func (r *InventoryItemRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM inventory_items
		WHERE company_id = $1 AND active ORDER BY sku`, companyID)
}

// ListLowStock ítems activos con stock en o bajo el mínimo.
func (r *InventoryItemRepo) ListLowStock(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM inventory_items
		WHERE company_id = $1 AND active AND current_stock <= minimum_stock ORDER BY sku`, companyID)
}

// ListOutOfStock ítems activos sin stock.
func (r *InventoryItemRepo) ListOutOfStock(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM inventory_items
		WHERE company_id = $1 AND active AND current_stock = 0 ORDER BY sku`, companyID)
}

// Summary agrega los ítems activos de la empresa.
func (r *InventoryItemRepo) Summary(ctx context.Context, companyID string) (*repository.StockSummary, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(current_stock), 0),
			COALESCE(SUM(total_value), 0),
			COUNT(*) FILTER (WHERE current_stock > minimum_stock),
			COUNT(*) FILTER (WHERE current_stock > 0 AND current_stock <= minimum_stock),
			COUNT(*) FILTER (WHERE current_stock = 0)
		FROM inventory_items WHERE company_id = $1 AND active`
	sum := &repository.StockSummary{TotalValue: decimal.Zero}
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&sum.TotalItems, &sum.TotalUnits, &sum.TotalValue,
		&sum.ActiveItems, &sum.LowStockItems, &sum.OutOfStockItems,
	)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return sum, nil
}

func (r *InventoryItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InventoryItem, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

func (r *InventoryItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Description, &it.Category,
		&it.UnitPrice, &it.CostPrice, &it.Supplier,
		&it.CurrentStock, &it.MinimumStock, &it.MaximumStock, &it.UnitOfMeasure, &it.Warehouse, &it.Location, &it.Status,
		&it.TotalValue, &it.LastMovementDate, &it.TotalMovements, &it.ListID, &it.ListItemID, &it.CustomFields,
		&it.Active, &it.Version, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
