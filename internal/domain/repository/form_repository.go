package repository

import (
	"context"

	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
)

// FormRepository puerto de lectura/alta de formularios.
type FormRepository interface {
	Create(ctx context.Context, form *entity.Form) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Form, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Form, error)
}

// ListRepository puerto de lectura/alta de listas.
type ListRepository interface {
	Create(ctx context.Context, list *entity.List) error
	GetByID(ctx context.Context, companyID, id string) (*entity.List, error)
}
