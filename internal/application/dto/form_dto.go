package dto

import "github.com/jhoicas/affluo-inventario/internal/domain/entity"

// FormResponse formulario listo para renderizar (opciones de listas ya resueltas).
type FormResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	Fields      []entity.FormField `json:"fields"`
}

// ToFormResponse mapea un formulario.
func ToFormResponse(f *entity.Form) FormResponse {
	fields := f.Fields
	if fields == nil {
		fields = []entity.FormField{}
	}
	return FormResponse{ID: f.ID, Name: f.Name, Description: f.Description, Status: f.Status, Fields: fields}
}
