package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementsTable = "inventory_movements"

var movementColumns = []string{
	"id", "company_id", "inventory_item_id", "form_id", "form_submission_id", "movement_type",
	"quantity", "unit_price", "total_value", "average_cost", "stock_before", "stock_after",
	"reference_number", "reference_type", "notes", "from_location", "to_location",
	"performed_by", "performed_at", "metadata", "created_at",
}

// movementRow fila de inventory_movements tal como la devuelve pgxscan.
type movementRow struct {
	ID               string           `db:"id"`
	CompanyID        string           `db:"company_id"`
	InventoryItemID  string           `db:"inventory_item_id"`
	FormID           string           `db:"form_id"`
	FormSubmissionID string           `db:"form_submission_id"`
	MovementType     string           `db:"movement_type"`
	Quantity         int              `db:"quantity"`
	UnitPrice        decimal.Decimal  `db:"unit_price"`
	TotalValue       decimal.Decimal  `db:"total_value"`
	AverageCost      *decimal.Decimal `db:"average_cost"`
	StockBefore      int              `db:"stock_before"`
	StockAfter       int              `db:"stock_after"`
	ReferenceNumber  string           `db:"reference_number"`
	ReferenceType    string           `db:"reference_type"`
	Notes            string           `db:"notes"`
	FromLocation     string           `db:"from_location"`
	ToLocation       string           `db:"to_location"`
	PerformedBy      string           `db:"performed_by"`
	PerformedAt      time.Time        `db:"performed_at"`
	Metadata         entity.Payload   `db:"metadata"`
	CreatedAt        time.Time        `db:"created_at"`
}

func (m movementRow) toEntity() *entity.InventoryMovement {
	return &entity.InventoryMovement{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		InventoryItemID:  m.InventoryItemID,
		FormID:           m.FormID,
		FormSubmissionID: m.FormSubmissionID,
		MovementType:     m.MovementType,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		TotalValue:       m.TotalValue,
		AverageCost:      m.AverageCost,
		StockBefore:      m.StockBefore,
		StockAfter:       m.StockAfter,
		ReferenceNumber:  m.ReferenceNumber,
		ReferenceType:    m.ReferenceType,
		Notes:            m.Notes,
		FromLocation:     m.FromLocation,
		ToLocation:       m.ToLocation,
		PerformedBy:      m.PerformedBy,
		PerformedAt:      m.PerformedAt,
		Metadata:         m.Metadata,
		CreatedAt:        m.CreatedAt,
	}
}

// InventoryMovementRepo log de movimientos sobre PostgreSQL (usable con pool o tx).
// La tabla rechaza UPDATE y DELETE mediante trigger.
type InventoryMovementRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserta un movimiento.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" || m.CompanyID == "" || m.InventoryItemID == "" {
		return fmt.Errorf("%w: movimiento sin id, empresa o ítem", domain.ErrInvalidInput)
	}
	sql, args, err := r.builder.Insert(movementsTable).Columns(movementColumns...).Values(
		m.ID, m.CompanyID, m.InventoryItemID, m.FormID, m.FormSubmissionID, m.MovementType,
		m.Quantity, m.UnitPrice, m.TotalValue, m.AverageCost, m.StockBefore, m.StockAfter,
		m.ReferenceNumber, m.ReferenceType, m.Notes, m.FromLocation, m.ToLocation,
		m.PerformedBy, m.PerformedAt, m.Metadata, m.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: movimiento %s", domain.ErrDuplicate, m.ID)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// List movimientos que cumplen el filtro en orden de aplicación (o inverso con NewestFirst).
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	sql, args, err := r.listQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	out := make([]*entity.InventoryMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *InventoryMovementRepo) listQuery(f repository.MovementFilter) squirrel.SelectBuilder {
	q := r.builder.Select(movementColumns...).From(movementsTable).
		Where(movementConditions(f.CompanyID, f.From, f.To))
	for _, c := range []struct{ col, val string }{
		{"inventory_item_id", f.InventoryItemID},
		{"form_id", f.FormID},
		{"form_submission_id", f.FormSubmissionID},
		{"reference_number", f.ReferenceNumber},
		{"performed_by", f.PerformedBy},
		{"movement_type", f.MovementType},
	} {
		if c.val != "" {
			q = q.Where(squirrel.Eq{c.col: c.val})
		}
	}
	if f.NewestFirst {
		q = q.OrderBy("performed_at DESC", "seq DESC")
	} else {
		q = q.OrderBy("performed_at", "seq")
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	return q
}

// Summary totales por tipo de movimiento en la ventana [from, to].
func (r *InventoryMovementRepo) Summary(ctx context.Context, companyID string, from, to *time.Time) (*repository.MovementSummary, error) {
	sql, args, err := r.builder.
		Select("movement_type", "COUNT(*) AS count", "COALESCE(SUM(quantity), 0) AS quantity", "COALESCE(SUM(total_value), 0) AS value").
		From(movementsTable).
		Where(movementConditions(companyID, from, to)).
		GroupBy("movement_type").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}
	var rows []struct {
		MovementType string          `db:"movement_type"`
		Count        int             `db:"count"`
		Quantity     int             `db:"quantity"`
		Value        decimal.Decimal `db:"value"`
	}
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select summary: %w", err)
	}

	sum := &repository.MovementSummary{TotalValue: decimal.Zero, ByType: make(map[string]repository.MovementTypeTotals, len(rows))}
	for _, row := range rows {
		sum.TotalMovements += row.Count
		sum.TotalValue = sum.TotalValue.Add(row.Value)
		sum.ByType[row.MovementType] = repository.MovementTypeTotals{Count: row.Count, Quantity: row.Quantity, Value: row.Value}
	}
	return sum, nil
}

func movementConditions(companyID string, from, to *time.Time) squirrel.And {
	cond := squirrel.And{squirrel.Eq{"company_id": companyID}}
	if from != nil {
		cond = append(cond, squirrel.GtOrEq{"performed_at": *from})
	}
	if to != nil {
		cond = append(cond, squirrel.LtOrEq{"performed_at": *to})
	}
	return cond
}
