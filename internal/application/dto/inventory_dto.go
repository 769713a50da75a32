package dto

import (
	"time"

	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AdjustmentRequest body para POST /api/inventory/adjustments.
// El tipo se valida en el motor para que un tipo inválido quede registrado en el envío.
type AdjustmentRequest struct {
	FormSubmissionID string                  `json:"form_submission_id" validate:"required"`
	FormID           string                  `json:"form_id"`
	AdjustmentType   string                  `json:"adjustment_type" validate:"required"`
	Reason           string                  `json:"reason"`
	ReferenceNumber  string                  `json:"reference_number"`
	Notes            string                  `json:"notes"`
	Metadata         entity.Payload          `json:"metadata"`
	Items            []AdjustmentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// AdjustmentItemRequest un ítem del ajuste; basta inventory_item_id o sku.
type AdjustmentItemRequest struct {
	InventoryItemID string           `json:"inventory_item_id" validate:"required_without=SKU"`
	SKU             string           `json:"sku" validate:"required_without=InventoryItemID"`
	Quantity        int              `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	FromLocation    string           `json:"from_location"`
	ToLocation      string           `json:"to_location"`
	Metadata        entity.Payload   `json:"metadata"`
}

// ToCommand arma la solicitud del motor. Motivo y referencia vacíos toman los valores estándar.
func (r AdjustmentRequest) ToCommand(companyID, userID string) inventory.AdjustmentRequest {
	reason := r.Reason
	if reason == "" {
		reason = inventory.ReasonFor(r.AdjustmentType)
	}
	ref := r.ReferenceNumber
	if ref == "" {
		ref = inventory.SubmissionReference(r.FormSubmissionID)
	}
	items := make([]inventory.ItemAdjustment, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, inventory.ItemAdjustment{
			InventoryItemID: it.InventoryItemID,
			SKU:             it.SKU,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			FromLocation:    it.FromLocation,
			ToLocation:      it.ToLocation,
			ItemMetadata:    it.Metadata,
		})
	}
	return inventory.AdjustmentRequest{
		CompanyID:        companyID,
		FormSubmissionID: r.FormSubmissionID,
		FormID:           r.FormID,
		PerformedBy:      userID,
		AdjustmentType:   r.AdjustmentType,
		Reason:           reason,
		ReferenceNumber:  ref,
		Notes:            r.Notes,
		Metadata:         r.Metadata,
		Items:            items,
	}
}

// ItemResponse ítem de inventario.
type ItemResponse struct {
	ID               string          `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	Supplier         string          `json:"supplier,omitempty"`
	CurrentStock     int             `json:"current_stock"`
	MinimumStock     int             `json:"minimum_stock"`
	MaximumStock     *int            `json:"maximum_stock,omitempty"`
	UnitOfMeasure    string          `json:"unit_of_measure,omitempty"`
	Warehouse        string          `json:"warehouse,omitempty"`
	Location         string          `json:"location,omitempty"`
	Status           string          `json:"status"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LastMovementDate *time.Time      `json:"last_movement_date,omitempty"`
	TotalMovements   int             `json:"total_movements"`
	Active           bool            `json:"active"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MovementResponse movimiento del log.
type MovementResponse struct {
	ID               string           `json:"id"`
	InventoryItemID  string           `json:"inventory_item_id"`
	FormID           string           `json:"form_id,omitempty"`
	FormSubmissionID string           `json:"form_submission_id,omitempty"`
	MovementType     string           `json:"movement_type"`
	Quantity         int              `json:"quantity"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	TotalValue       decimal.Decimal  `json:"total_value"`
	AverageCost      *decimal.Decimal `json:"average_cost,omitempty"`
	StockBefore      int              `json:"stock_before"`
	StockAfter       int              `json:"stock_after"`
	ReferenceNumber  string           `json:"reference_number,omitempty"`
	ReferenceType    string           `json:"reference_type,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	FromLocation     string           `json:"from_location,omitempty"`
	ToLocation       string           `json:"to_location,omitempty"`
	PerformedBy      string           `json:"performed_by"`
	PerformedAt      time.Time        `json:"performed_at"`
	Metadata         entity.Payload   `json:"metadata,omitempty"`
}

// AdjustmentResponse estado confirmado tras un ajuste.
type AdjustmentResponse struct {
	Movements []MovementResponse `json:"movements"`
	Items     []ItemResponse     `json:"items"`
}

// WarningResponse candidato descartado en la extracción.
type WarningResponse struct {
	Code       string `json:"code"`
	Source     string `json:"source"`
	Identifier string `json:"identifier,omitempty"`
	Detail     string `json:"detail"`
}

// SubmissionProcessResponse resultado de POST /api/inventory/submissions/:id/process.
type SubmissionProcessResponse struct {
	SubmissionID   string              `json:"submission_id"`
	Skipped        bool                `json:"skipped"`
	SkipReason     string              `json:"skip_reason,omitempty"`
	AdjustmentType string              `json:"adjustment_type,omitempty"`
	Warnings       []WarningResponse   `json:"warnings"`
	Result         *AdjustmentResponse `json:"result,omitempty"`
}

// ToItemResponse mapea un ítem.
func ToItemResponse(it *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:               it.ID,
		SKU:              it.SKU,
		Name:             it.Name,
		Description:      it.Description,
		Category:         it.Category,
		UnitPrice:        it.UnitPrice,
		CostPrice:        it.CostPrice,
		Supplier:         it.Supplier,
		CurrentStock:     it.CurrentStock,
		MinimumStock:     it.MinimumStock,
		MaximumStock:     it.MaximumStock,
		UnitOfMeasure:    it.UnitOfMeasure,
		Warehouse:        it.Warehouse,
		Location:         it.Location,
		Status:           it.Status,
		TotalValue:       it.TotalValue,
		LastMovementDate: it.LastMovementDate,
		TotalMovements:   it.TotalMovements,
		Active:           it.Active,
		UpdatedAt:        it.UpdatedAt,
	}
}

// ToItemResponses mapea una lista de ítems (nunca nil).
func ToItemResponses(items []*entity.InventoryItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToItemResponse(it))
	}
	return out
}

// ToMovementResponses mapea movimientos (nunca nil).
func ToMovementResponses(movs []*entity.InventoryMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, MovementResponse{
			ID:               m.ID,
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
		})
	}
	return out
}

// ToAdjustmentResponse mapea el resultado del motor.
func ToAdjustmentResponse(res *inventory.AdjustmentResult) *AdjustmentResponse {
	if res == nil {
		return nil
	}
	return &AdjustmentResponse{
		Movements: ToMovementResponses(res.Movements),
		Items:     ToItemResponses(res.Items),
	}
}

// ToSubmissionProcessResponse mapea el resultado del procesador de envíos.
func ToSubmissionProcessResponse(out *inventory.SubmissionOutcome) SubmissionProcessResponse {
	warnings := make([]WarningResponse, 0, len(out.Warnings))
	for _, w := range out.Warnings {
		warnings = append(warnings, WarningResponse{Code: w.Code, Source: w.Source, Identifier: w.Identifier, Detail: w.Detail})
	}
	return SubmissionProcessResponse{
		SubmissionID:   out.SubmissionID,
		Skipped:        out.Skipped,
		SkipReason:     out.SkipReason,
		AdjustmentType: out.AdjustmentType,
		Warnings:       warnings,
		Result:         ToAdjustmentResponse(out.Result),
	}
}
