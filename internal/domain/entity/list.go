package entity

import "time"

// List datos tabulares de referencia definidos por una empresa.
type List struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Fields      []ListField
	Items       []ListItem
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListField columna de una lista.
type ListField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// ListItem fila de una lista; Data se indexa por nombre de campo.
type ListItem struct {
	ID        string    `json:"id"`
	Data      Payload   `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}
