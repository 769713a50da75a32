// Package seed carga datos de ejemplo de forma explícita e idempotente (existencia por clave).
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
	"github.com/shopspring/decimal"
)

// Empresa e identificadores de los datos de ejemplo.
const (
	SampleCompanyID     = "company1"
	SampleAdminID       = "admin"
	ProductListID       = "list-products"
	SalesOrderFormID    = "form-sales-order"
	PurchaseReceivingID = "form-purchase-receiving"
	CustomerFeedbackID  = "form-customer-feedback"
)

// Result cantidades creadas (las ya existentes no se cuentan).
type Result struct {
	Lists int
	Items int
	Forms int
}

// Seeder crea lista de productos, ítems de inventario y formularios de ejemplo.
type Seeder struct {
	itemRepo repository.InventoryItemRepository
	formRepo repository.FormRepository
	listRepo repository.ListRepository
	log      *logger.Logger
}

// NewSeeder construye el cargador.
func NewSeeder(
	itemRepo repository.InventoryItemRepository,
	formRepo repository.FormRepository,
	listRepo repository.ListRepository,
	log *logger.Logger,
) *Seeder {
	return &Seeder{itemRepo: itemRepo, formRepo: formRepo, listRepo: listRepo, log: log.Component("seed")}
}

type sampleProduct struct {
	id, name, sku, category, supplier string
	price                             string
	stock, min, max                   int
}

var sampleProducts = []sampleProduct{
	{"item-1", "Laptop Pro X1", "LAP-001", "Electronics", "TechCorp", "1299.99", 45, 10, 100},
	{"item-2", "Wireless Headphones", "AUD-002", "Electronics", "AudioMax", "199.99", 120, 25, 300},
	{"item-3", "Cotton T-Shirt", "CLO-003", "Clothing", "FashionCo", "24.99", 200, 50, 500},
	{"item-4", "Garden Hose", "GAR-004", "Home & Garden", "GardenPro", "39.99", 75, 15, 150},
	{"item-5", "Programming Guide", "BOK-005", "Books", "BookWorld", "49.99", 30, 10, 80},
}

// Run carga los datos de companyID. Es seguro ejecutarlo varias veces.
func (s *Seeder) Run(ctx context.Context, companyID string) (*Result, error) {
	res := &Result{}
	now := time.Now().UTC()

	list, err := s.listRepo.GetByID(ctx, companyID, ProductListID)
	if err != nil {
		return nil, fmt.Errorf("seed: lista: %w", err)
	}
	if list == nil {
		if err := s.listRepo.Create(ctx, productList(companyID, now)); err != nil {
			return nil, fmt.Errorf("seed: crear lista: %w", err)
		}
		res.Lists++
	}

	for _, p := range sampleProducts {
		existing, err := s.itemRepo.GetByCompanyAndSKU(ctx, companyID, p.sku)
		if err != nil {
			return nil, fmt.Errorf("seed: ítem %s: %w", p.sku, err)
		}
		if existing != nil {
			continue
		}
		if err := s.itemRepo.Create(ctx, sampleItem(companyID, p, now)); err != nil {
			return nil, fmt.Errorf("seed: crear ítem %s: %w", p.sku, err)
		}
		res.Items++
	}

	for _, f := range sampleForms(companyID, now) {
		existing, err := s.formRepo.GetByID(ctx, companyID, f.ID)
		if err != nil {
			return nil, fmt.Errorf("seed: formulario %s: %w", f.ID, err)
		}
		if existing != nil {
			continue
		}
		if err := s.formRepo.Create(ctx, f); err != nil {
			return nil, fmt.Errorf("seed: crear formulario %s: %w", f.ID, err)
		}
		res.Forms++
	}

	s.log.Info().
		Str("company_id", companyID).
		Int("lists", res.Lists).
		Int("items", res.Items).
		Int("forms", res.Forms).
		Msg("datos de ejemplo cargados")
	return res, nil
}

func productList(companyID string, now time.Time) *entity.List {
	l := &entity.List{
		ID:          ProductListID,
		CompanyID:   companyID,
		Name:        "Product Inventory",
		Description: "Complete product catalog with SKUs and categories",
		Fields: []entity.ListField{
			{ID: "name", Name: "Product Name", Type: "text", Required: true},
			{ID: "sku", Name: "SKU", Type: "text", Required: true},
			{ID: "category", Name: "Category", Type: "select", Required: true},
			{ID: "price", Name: "Price", Type: "number", Required: true},
			{ID: "supplier", Name: "Supplier", Type: "text"},
		},
		CreatedBy: SampleAdminID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, p := range sampleProducts {
		l.Items = append(l.Items, entity.ListItem{
			ID: p.id,
			Data: entity.Payload{
				"Product Name": entity.String(p.name),
				"SKU":          entity.String(p.sku),
				"Category":     entity.String(p.category),
				"Price":        entity.String(p.price),
				"Supplier":     entity.String(p.supplier),
			},
			CreatedAt: now,
		})
	}
	return l
}

func sampleItem(companyID string, p sampleProduct, now time.Time) *entity.InventoryItem {
	max := p.max
	price := decimal.RequireFromString(p.price)
	item := &entity.InventoryItem{
		ID:            p.id,
		CompanyID:     companyID,
		SKU:           p.sku,
		Name:          p.name,
		Category:      p.category,
		UnitPrice:     price,
		CostPrice:     price.Mul(decimal.NewFromFloat(0.6)).Round(2),
		Supplier:      p.supplier,
		CurrentStock:  p.stock,
		MinimumStock:  p.min,
		MaximumStock:  &max,
		UnitOfMeasure: "unit",
		Warehouse:     "main",
		ListID:        ProductListID,
		ListItemID:    p.id,
		Active:        true,
		CreatedBy:     SampleAdminID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	inventory.Recompute(item)
	return item
}

func sampleForms(companyID string, now time.Time) []*entity.Form {
	productField := func(order int) entity.FormField {
		return entity.FormField{
			ID: "product", Type: entity.FieldTypeSelect, Label: "Product", Required: true, Order: order,
			DataSource: &entity.FieldDataSource{Type: entity.DataSourceTypeList, ListID: ProductListID, ListField: "SKU"},
		}
	}
	quantityField := func(order int) entity.FormField {
		return entity.FormField{ID: "quantity", Type: entity.FieldTypeNumber, Label: "Quantity", Required: true, Order: order}
	}
	form := func(id, name, desc string, fields ...entity.FormField) *entity.Form {
		return &entity.Form{
			ID: id, CompanyID: companyID, Name: name, Description: desc, Status: "active",
			Fields: fields, CreatedBy: SampleAdminID, CreatedAt: now, UpdatedAt: now,
		}
	}
	return []*entity.Form{
		form(SalesOrderFormID, "Sales Order", "Registro de ventas; descuenta stock",
			entity.FormField{ID: "customer", Type: entity.FieldTypeText, Label: "Customer", Required: true, Order: 1},
			productField(2),
			quantityField(3),
		),
		form(PurchaseReceivingID, "Purchase Receiving", "Recepción de compras; suma stock",
			entity.FormField{ID: "supplier", Type: entity.FieldTypeText, Label: "Supplier", Order: 1},
			productField(2),
			quantityField(3),
		),
		form(CustomerFeedbackID, "Customer Feedback", "Encuesta sin efecto en inventario",
			entity.FormField{ID: "rating", Type: entity.FieldTypeNumber, Label: "Rating", Required: true, Order: 1},
			entity.FormField{ID: "comments", Type: entity.FieldTypeTextarea, Label: "Comments", Order: 2},
		),
	}
}
