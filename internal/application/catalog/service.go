package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

// Service lectura de formularios y listas para el motor de inventario y el renderizado de formularios.
type Service struct {
	formRepo repository.FormRepository
	listRepo repository.ListRepository
}

// NewService construye el servicio.
func NewService(formRepo repository.FormRepository, listRepo repository.ListRepository) *Service {
	return &Service{formRepo: formRepo, listRepo: listRepo}
}

// GetForm formulario de la empresa; domain.ErrNotFound si no existe.
func (s *Service) GetForm(ctx context.Context, companyID, formID string) (*entity.Form, error) {
	form, err := s.formRepo.GetByID(ctx, companyID, formID)
	if err != nil {
		return nil, fmt.Errorf("obtener formulario: %w", err)
	}
	if form == nil {
		return nil, fmt.Errorf("%w: formulario %s", domain.ErrNotFound, formID)
	}
	return form, nil
}

// GetListFieldValues valores distintos y no nulos de fieldName en las filas de la lista,
// en orden de primera aparición.
func (s *Service) GetListFieldValues(ctx context.Context, companyID, listID, fieldName string) ([]string, error) {
	list, err := s.listRepo.GetByID(ctx, companyID, listID)
	if err != nil {
		return nil, fmt.Errorf("obtener lista: %w", err)
	}
	if list == nil {
		return nil, fmt.Errorf("%w: lista %s", domain.ErrNotFound, listID)
	}

	values := make([]string, 0, len(list.Items))
	seen := make(map[string]struct{}, len(list.Items))
	for _, row := range list.Items {
		v := row.Data.Get(fieldName)
		if v.IsNull() {
			continue
		}
		text := strings.TrimSpace(v.Text())
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		values = append(values, text)
	}
	return values, nil
}

// FormForRendering copia del formulario con los campos ordenados y las opciones de los campos
// con origen en lista ya resueltas. Una lista inexistente deja el campo sin opciones.
func (s *Service) FormForRendering(ctx context.Context, companyID, formID string) (*entity.Form, error) {
	form, err := s.GetForm(ctx, companyID, formID)
	if err != nil {
		return nil, err
	}
	fields := make([]entity.FormField, len(form.Fields))
	copy(fields, form.Fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })

	for i := range fields {
		f := &fields[i]
		if !f.IsListSourced() {
			continue
		}
		opts, err := s.GetListFieldValues(ctx, companyID, f.DataSource.ListID, f.DataSource.ListField)
		switch {
		case err == nil:
			f.Options = opts
		case errors.Is(err, domain.ErrNotFound):
			f.Options = []string{}
		default:
			return nil, err
		}
	}
	form.Fields = fields
	return form, nil
}
