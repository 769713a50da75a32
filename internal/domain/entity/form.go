package entity

import "time"

// Tipos de campo de formulario que usa el motor.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeSelect   = "select"
	FieldTypeTextarea = "textarea"
	FieldTypeDate     = "date"
)

// DataSourceTypeList indica que las opciones del campo provienen de una lista.
const DataSourceTypeList = "list"

// Form esquema dinámico de captura de datos de una empresa.
type Form struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Status      string
	Fields      []FormField
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormField campo de un formulario. La clave del campo en el payload de un envío es ID.
type FormField struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Label      string           `json:"label"`
	Required   bool             `json:"required"`
	Order      int              `json:"order"`
	Options    []string         `json:"options,omitempty"`
	DataSource *FieldDataSource `json:"dataSource,omitempty"`
}

// FieldDataSource origen externo de las opciones de un campo.
type FieldDataSource struct {
	Type      string `json:"type"` // "list"
	ListID    string `json:"listId"`
	ListField string `json:"listField"`
}

// IsListSourced indica si las opciones del campo se toman de una lista.
func (f FormField) IsListSourced() bool {
	return f.DataSource != nil && f.DataSource.Type == DataSourceTypeList
}
