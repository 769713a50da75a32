package entity

import "time"

// Estados de procesamiento de inventario de un envío. Vacío equivale a pendiente.
const (
	InventoryStatusPending   = "PENDING"
	InventoryStatusProcessed = "PROCESSED"
	InventoryStatusFailed    = "FAILED"
)

// FormSubmission envío de un formulario. La captura la crea; el motor de inventario
// solo escribe los campos Inventory*, Processed* y ProcessingNotes.
type FormSubmission struct {
	ID                   string
	CompanyID            string
	FormID               string
	SubmittedBy          string
	SubmittedAt          time.Time
	Data                 Payload
	Status               string
	InventoryStatus      string
	ProcessedAt          *time.Time
	ProcessedBy          string
	ProcessingNotes      string
	InventoryAdjustments []AdjustmentSummary
}

// AdjustmentSummary resumen desnormalizado de un ajuste aplicado, guardado en el envío.
type AdjustmentSummary struct {
	ItemID         string  `json:"itemId"`
	SKU            string  `json:"sku"`
	ItemName       string  `json:"itemName"`
	Quantity       int     `json:"quantity"`
	AdjustmentType string  `json:"adjustmentType"`
	Reason         string  `json:"reason,omitempty"`
	FormData       Payload `json:"formData,omitempty"`
	Processed      bool    `json:"processed"`
}

// Clone copia el envío sin compartir slices ni mapas con el original.
func (s *FormSubmission) Clone() *FormSubmission {
	if s == nil {
		return nil
	}
	c := *s
	if s.ProcessedAt != nil {
		t := *s.ProcessedAt
		c.ProcessedAt = &t
	}
	if s.Data != nil {
		c.Data = make(Payload, len(s.Data))
		for k, v := range s.Data {
			c.Data[k] = v
		}
	}
	c.InventoryAdjustments = append([]AdjustmentSummary(nil), s.InventoryAdjustments...)
	return &c
}
