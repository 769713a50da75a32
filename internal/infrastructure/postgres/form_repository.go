package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
)

var (
	_ repository.FormRepository = (*FormRepo)(nil)
	_ repository.ListRepository = (*ListRepo)(nil)
)

// FormRepo formularios sobre PostgreSQL; los campos se guardan como jsonb.
type FormRepo struct {
	q Querier
}

// NewFormRepository construye el adaptador.
func NewFormRepository(q Querier) *FormRepo {
	return &FormRepo{q: q}
}

// Create persiste un formulario.
func (r *FormRepo) Create(ctx context.Context, f *entity.Form) error {
	fields := f.Fields
	if fields == nil {
		fields = []entity.FormField{}
	}
	query := `
		INSERT INTO forms (id, company_id, name, description, status, fields, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, f.ID, f.CompanyID, f.Name, f.Description, f.Status, fields, f.CreatedBy, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: formulario %s", domain.ErrDuplicate, f.ID)
		}
		return fmt.Errorf("create form: %w", err)
	}
	return nil
}

// GetByID obtiene el formulario de la empresa; (nil, nil) si no existe.
func (r *FormRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Form, error) {
	query := `SELECT id, company_id, name, description, status, fields, created_by, created_at, updated_at
		FROM forms WHERE id = $1 AND company_id = $2`
	f, err := scanForm(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get form: %w", err)
	}
	return f, nil
}

// ListByCompany formularios de la empresa ordenados por nombre.
func (r *FormRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Form, error) {
	query := `SELECT id, company_id, name, description, status, fields, created_by, created_at, updated_at
		FROM forms WHERE company_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()
	var list []*entity.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func scanForm(row pgx.Row) (*entity.Form, error) {
	var f entity.Form
	if err := row.Scan(&f.ID, &f.CompanyID, &f.Name, &f.Description, &f.Status, &f.Fields, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListRepo listas de referencia sobre PostgreSQL; columnas y filas en jsonb.
type ListRepo struct {
	q Querier
}

// NewListRepository construye el adaptador.
func NewListRepository(q Querier) *ListRepo {
	return &ListRepo{q: q}
}

// Create persiste una lista con sus filas.
func (r *ListRepo) Create(ctx context.Context, l *entity.List) error {
	fields, items := l.Fields, l.Items
	if fields == nil {
		fields = []entity.ListField{}
	}
	if items == nil {
		items = []entity.ListItem{}
	}
	query := `
		INSERT INTO lists (id, company_id, name, description, fields, items, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, l.ID, l.CompanyID, l.Name, l.Description, fields, items, l.CreatedBy, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lista %s", domain.ErrDuplicate, l.ID)
		}
		return fmt.Errorf("create list: %w", err)
	}
	return nil
}

// GetByID obtiene la lista de la empresa; (nil, nil) si no existe.
func (r *ListRepo) GetByID(ctx context.Context, companyID, id string) (*entity.List, error) {
	query := `SELECT id, company_id, name, description, fields, items, created_by, created_at, updated_at
		FROM lists WHERE id = $1 AND company_id = $2`
	var l entity.List
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&l.ID, &l.CompanyID, &l.Name, &l.Description, &l.Fields, &l.Items, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	return &l, nil
}
