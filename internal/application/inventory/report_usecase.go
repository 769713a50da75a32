package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

// ReportUseCase consultas de solo lectura sobre ítems y movimientos.
type ReportUseCase struct {
	itemRepo     repository.InventoryItemRepository
	movementRepo repository.InventoryMovementRepository
	exporter     MovementExporter
	renderer     StockReportRenderer
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso. exporter y renderer pueden ser nil si no se
// exponen las descargas.
func NewReportUseCase(
	itemRepo repository.InventoryItemRepository,
	movementRepo repository.InventoryMovementRepository,
	exporter MovementExporter,
	renderer StockReportRenderer,
) *ReportUseCase {
	return &ReportUseCase{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		exporter:     exporter,
		renderer:     renderer,
		now:          time.Now,
	}
}

// StockReport resumen de stock con los ítems que requieren atención.
type StockReport struct {
	CompanyID   string
	GeneratedAt time.Time
	Summary     *repository.StockSummary
	LowStock    []*entity.InventoryItem
	OutOfStock  []*entity.InventoryItem
}

// ChainBreak punto donde StockBefore no coincide con el StockAfter del movimiento anterior.
type ChainBreak struct {
	Index          int
	MovementID     string
	ExpectedBefore int
	ActualBefore   int
}

// ChainReport verificación de la cadena de movimientos de un ítem.
type ChainReport struct {
	ItemID         string
	Movements      int
	CurrentStock   int
	LastStockAfter *int
	Consistent     bool
	Breaks         []ChainBreak
}

// ListItems ítems de la empresa.
func (uc *ReportUseCase) ListItems(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return uc.itemRepo.ListByCompany(ctx, companyID)
}

// GetItem ítem por id. Un ítem de otra empresa se reporta como inexistente.
func (uc *ReportUseCase) GetItem(ctx context.Context, companyID, itemID string) (*entity.InventoryItem, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	return item, nil
}

// LowStock ítems con currentStock <= minimumStock.
func (uc *ReportUseCase) LowStock(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return uc.itemRepo.ListLowStock(ctx, companyID)
}

// OutOfStock ítems con currentStock == 0.
func (uc *ReportUseCase) OutOfStock(ctx context.Context, companyID string) ([]*entity.InventoryItem, error) {
	return uc.itemRepo.ListOutOfStock(ctx, companyID)
}

// Movements movimientos según el filtro; CompanyID es obligatorio.
func (uc *ReportUseCase) Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	if filter.CompanyID == "" {
		return nil, fmt.Errorf("%w: empresa requerida", domain.ErrInvalidInput)
	}
	if filter.MovementType != "" && !entity.ValidMovementType(filter.MovementType) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAdjustmentType, filter.MovementType)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return uc.movementRepo.List(ctx, filter)
}

// ItemMovements movimientos de un ítem de la empresa, del más reciente al más antiguo.
func (uc *ReportUseCase) ItemMovements(ctx context.Context, companyID, itemID string) ([]*entity.InventoryMovement, error) {
	if _, err := uc.GetItem(ctx, companyID, itemID); err != nil {
		return nil, err
	}
	return uc.movementRepo.List(ctx, repository.MovementFilter{
		CompanyID:       companyID,
		InventoryItemID: itemID,
		NewestFirst:     true,
	})
}

// SubmissionMovements movimientos generados por un envío.
func (uc *ReportUseCase) SubmissionMovements(ctx context.Context, companyID, submissionID string) ([]*entity.InventoryMovement, error) {
	return uc.movementRepo.List(ctx, repository.MovementFilter{
		CompanyID:        companyID,
		FormSubmissionID: submissionID,
	})
}

// StockSummary totales del stock de la empresa.
func (uc *ReportUseCase) StockSummary(ctx context.Context, companyID string) (*repository.StockSummary, error) {
	return uc.itemRepo.Summary(ctx, companyID)
}

// MovementSummary totales de movimientos en [from, to] (ambos opcionales).
func (uc *ReportUseCase) MovementSummary(ctx context.Context, companyID string, from, to *time.Time) (*repository.MovementSummary, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return uc.movementRepo.Summary(ctx, companyID, from, to)
}

// VerifyItemChain recorre los movimientos del ítem en orden de aplicación y comprueba que
// cada StockBefore sea el StockAfter anterior y que el último StockAfter sea el stock actual.
func (uc *ReportUseCase) VerifyItemChain(ctx context.Context, companyID, itemID string) (*ChainReport, error) {
	item, err := uc.GetItem(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movementRepo.List(ctx, repository.MovementFilter{
		CompanyID:       companyID,
		InventoryItemID: itemID,
	})
	if err != nil {
		return nil, err
	}

	rep := &ChainReport{ItemID: item.ID, Movements: len(movs), CurrentStock: item.CurrentStock}
	rep.Breaks = CheckChain(movs)
	if n := len(movs); n > 0 {
		last := movs[n-1].StockAfter
		rep.LastStockAfter = &last
	}
	rep.Consistent = len(rep.Breaks) == 0 && (rep.LastStockAfter == nil || *rep.LastStockAfter == item.CurrentStock)
	return rep, nil
}

// CheckChain devuelve los quiebres de una secuencia de movimientos de un mismo ítem
// ordenada por aplicación.
func CheckChain(movs []*entity.InventoryMovement) []ChainBreak {
	var breaks []ChainBreak
	for i := 1; i < len(movs); i++ {
		if movs[i].StockBefore != movs[i-1].StockAfter {
			breaks = append(breaks, ChainBreak{
				Index:          i,
				MovementID:     movs[i].ID,
				ExpectedBefore: movs[i-1].StockAfter,
				ActualBefore:   movs[i].StockBefore,
			})
		}
	}
	return breaks
}

// ExportMovements genera el XLSX de los movimientos que cumplen el filtro.
func (uc *ReportUseCase) ExportMovements(ctx context.Context, filter repository.MovementFilter) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportación de movimientos no configurada")
	}
	movs, err := uc.Movements(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := uc.itemRepo.ListByCompany(ctx, filter.CompanyID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return uc.exporter.ExportMovements(ctx, movs, byID)
}

// StockReport arma el resumen con las listas de bajo stock y agotados.
func (uc *ReportUseCase) StockReport(ctx context.Context, companyID string) (*StockReport, error) {
	summary, err := uc.itemRepo.Summary(ctx, companyID)
	if err != nil {
		return nil, err
	}
	low, err := uc.itemRepo.ListLowStock(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out, err := uc.itemRepo.ListOutOfStock(ctx, companyID)
	if err != nil {
		return nil, err
	}
	// Bajo stock excluye agotados para no repetirlos en el reporte.
	filtered := low[:0:0]
	for _, it := range low {
		if it.CurrentStock > 0 {
			filtered = append(filtered, it)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].SKU < filtered[j].SKU })
	return &StockReport{
		CompanyID:   companyID,
		GeneratedAt: uc.now(),
		Summary:     summary,
		LowStock:    filtered,
		OutOfStock:  out,
	}, nil
}

// StockReportPDF genera el PDF del resumen de stock.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context, companyID string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("reporte PDF no configurado")
	}
	rep, err := uc.StockReport(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderStockReport(ctx, rep)
}
