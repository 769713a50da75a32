package catalog_test

import (
	"context"
	"testing"

	"github.com/jhoicas/affluo-inventario/internal/application/catalog"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *catalog.Service {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	forms := memory.NewFormRepository(store)
	lists := memory.NewListRepository(store)

	require.NoError(t, lists.Create(ctx, &entity.List{
		ID: "l1", CompanyID: "c1", Name: "Products",
		Items: []entity.ListItem{
			{ID: "r1", Data: entity.Payload{"SKU": entity.String("A-1")}},
			{ID: "r2", Data: entity.Payload{"SKU": entity.String("B-2")}},
			{ID: "r3", Data: entity.Payload{"SKU": entity.String("A-1")}},
			{ID: "r4", Data: entity.Payload{"SKU": entity.Null()}},
			{ID: "r5", Data: entity.Payload{"Other": entity.String("x")}},
		},
	}))
	require.NoError(t, forms.Create(ctx, &entity.Form{
		ID: "f1", CompanyID: "c1", Name: "Sales Order",
		Fields: []entity.FormField{
			{ID: "quantity", Label: "Quantity", Order: 2},
			{ID: "product", Label: "Product", Order: 1,
				DataSource: &entity.FieldDataSource{Type: entity.DataSourceTypeList, ListID: "l1", ListField: "SKU"}},
			{ID: "ghost", Label: "Ghost", Order: 3,
				DataSource: &entity.FieldDataSource{Type: entity.DataSourceTypeList, ListID: "missing", ListField: "SKU"}},
		},
	}))
	return catalog.NewService(forms, lists)
}

func TestGetListFieldValues_DistintosNoNulos(t *testing.T) {
	svc := setup(t)
	values, err := svc.GetListFieldValues(context.Background(), "c1", "l1", "SKU")
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "B-2"}, values)

	_, err = svc.GetListFieldValues(context.Background(), "c2", "l1", "SKU")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetForm_OtraEmpresa(t *testing.T) {
	svc := setup(t)
	_, err := svc.GetForm(context.Background(), "c2", "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFormForRendering_ResuelveOpciones(t *testing.T) {
	svc := setup(t)
	form, err := svc.FormForRendering(context.Background(), "c1", "f1")
	require.NoError(t, err)
	require.Len(t, form.Fields, 3)

	assert.Equal(t, "product", form.Fields[0].ID, "campos ordenados por Order")
	assert.Equal(t, []string{"A-1", "B-2"}, form.Fields[0].Options)
	assert.Nil(t, form.Fields[1].Options)
	assert.Equal(t, []string{}, form.Fields[2].Options, "lista inexistente deja el campo sin opciones")
}
