package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

var (
	_ repository.FormRepository = (*FormRepo)(nil)
	_ repository.ListRepository = (*ListRepo)(nil)
)

// FormRepo formularios en memoria.
type FormRepo struct {
	store *Store
}

// NewFormRepository construye el repositorio.
func NewFormRepository(store *Store) *FormRepo {
	return &FormRepo{store: store}
}

// Create inserta el formulario.
func (r *FormRepo) Create(_ context.Context, form *entity.Form) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.forms[form.ID]; ok {
		return fmt.Errorf("%w: formulario %s", domain.ErrDuplicate, form.ID)
	}
	c := *form
	c.Fields = append([]entity.FormField(nil), form.Fields...)
	r.store.forms[form.ID] = &c
	return nil
}

// GetByID formulario de la empresa o nil.
func (r *FormRepo) GetByID(_ context.Context, companyID, id string) (*entity.Form, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	f, ok := r.store.forms[id]
	if !ok || f.CompanyID != companyID {
		return nil, nil
	}
	c := *f
	c.Fields = append([]entity.FormField(nil), f.Fields...)
	return &c, nil
}

// ListByCompany formularios de la empresa ordenados por nombre.
func (r *FormRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Form, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Form, 0)
	for _, f := range r.store.forms {
		if f.CompanyID == companyID {
			c := *f
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListRepo listas en memoria.
type ListRepo struct {
	store *Store
}

// NewListRepository construye el repositorio.
func NewListRepository(store *Store) *ListRepo {
	return &ListRepo{store: store}
}

// Create inserta la lista.
func (r *ListRepo) Create(_ context.Context, list *entity.List) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.lists[list.ID]; ok {
		return fmt.Errorf("%w: lista %s", domain.ErrDuplicate, list.ID)
	}
	c := *list
	c.Items = append([]entity.ListItem(nil), list.Items...)
	r.store.lists[list.ID] = &c
	return nil
}

// GetByID lista de la empresa o nil.
func (r *ListRepo) GetByID(_ context.Context, companyID, id string) (*entity.List, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	l, ok := r.store.lists[id]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	c := *l
	c.Fields = append([]entity.ListField(nil), l.Fields...)
	c.Items = append([]entity.ListItem(nil), l.Items...)
	return &c, nil
}
