package inventory

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/jhoicas/affluo-inventario/internal/domain/entity"
	"github.com/jhoicas/affluo-inventario/internal/domain/repository"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Palabras del nombre del formulario que lo marcan como relevante para inventario.
var inventoryKeywords = []string{"inventory", "stock", "purchase", "sale", "receiving", "shipping"}

// Claves del payload con el tipo de ajuste explícito, en orden de prioridad.
var typeKeys = []string{"adjustment_type", "movement_type"}

// Motivos de descarte de candidatos (no son errores de la solicitud).
const (
	WarningInvalidQuantity = "INVALID_QUANTITY"
	WarningUnresolvedItem  = "UNRESOLVED_ITEM"
)

// ExtractionWarning candidato descartado durante la extracción.
type ExtractionWarning struct {
	Code       string
	Source     string // "field:<id>" o "items[<i>]"
	Identifier string
	Detail     string
}

// Extraction resultado de analizar un envío.
// Relevant=false o Items vacío significa "sin efecto en inventario".
type Extraction struct {
	Relevant       bool
	AdjustmentType string
	Items          []ItemAdjustment
	Warnings       []ExtractionWarning
}

// Extractor deriva ajustes candidatos de un envío y el esquema de su formulario.
// Solo lee ítems para resolver identificadores; no escribe en ningún almacén.
type Extractor struct {
	itemRepo repository.InventoryItemRepository
	log      *logger.Logger
}

// NewExtractor construye el extractor.
func NewExtractor(itemRepo repository.InventoryItemRepository, log *logger.Logger) *Extractor {
	return &Extractor{itemRepo: itemRepo, log: log.Component("inventory_extractor")}
}

// IsInventoryForm indica si el nombre del formulario contiene alguna palabra de inventario
// (sin distinguir mayúsculas ni tildes).
func IsInventoryForm(form *entity.Form) bool {
	name := foldText(form.Name)
	for _, kw := range inventoryKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// ResolveAdjustmentType tipo de ajuste del envío: primero la clave explícita del payload
// (en mayúsculas), luego palabras del nombre del formulario; IN si nada coincide.
// "in"/"out" cuentan solo como palabra completa ("shipping" no es una entrada).
func ResolveAdjustmentType(form *entity.Form, data entity.Payload) string {
	for _, key := range typeKeys {
		if v := strings.TrimSpace(data.Get(key).Text()); v != "" {
			return strings.ToUpper(v)
		}
	}

	name := foldText(form.Name)
	words := nameWords(name)
	switch {
	case strings.Contains(name, "purchase"), strings.Contains(name, "receiving"), words["in"]:
		return entity.MovementTypeIN
	case strings.Contains(name, "sale"), strings.Contains(name, "shipping"), words["out"]:
		return entity.MovementTypeOUT
	default:
		return entity.MovementTypeIN
	}
}

// Extract analiza el envío. Solo devuelve error ante fallos del repositorio de ítems.
func (e *Extractor) Extract(ctx context.Context, form *entity.Form, sub *entity.FormSubmission) (*Extraction, error) {
	out := &Extraction{}
	if !IsInventoryForm(form) {
		return out, nil
	}
	out.Relevant = true
	out.AdjustmentType = ResolveAdjustmentType(form, sub.Data)

	if err := e.extractFields(ctx, form, sub, out); err != nil {
		return nil, err
	}
	if err := e.extractItemsArray(ctx, sub, out); err != nil {
		return nil, err
	}

	for _, w := range out.Warnings {
		e.log.Warn().
			Str("submission_id", sub.ID).
			Str("code", w.Code).
			Str("source", w.Source).
			Str("identifier", w.Identifier).
			Msg(w.Detail)
	}
	return out, nil
}

// extractFields recorre los campos selectores de ítem del formulario.
func (e *Extractor) extractFields(ctx context.Context, form *entity.Form, sub *entity.FormSubmission, out *Extraction) error {
	for _, field := range form.Fields {
		if !isItemSelector(field) {
			continue
		}
		value := sub.Data.Get(field.ID)
		identifier := strings.TrimSpace(value.Text())
		if identifier == "" {
			continue
		}
		source := "field:" + field.ID

		qty, ok := quantityForField(form, sub.Data, field.ID)
		if !ok || qty <= 0 {
			out.Warnings = append(out.Warnings, ExtractionWarning{
				Code:       WarningInvalidQuantity,
				Source:     source,
				Identifier: identifier,
				Detail:     "cantidad ausente o no positiva",
			})
			continue
		}

		item, err := e.resolve(ctx, sub.CompanyID, identifier, true)
		if err != nil {
			return err
		}
		if item == nil {
			out.Warnings = append(out.Warnings, unresolved(source, identifier))
			continue
		}
		out.Items = append(out.Items, ItemAdjustment{
			InventoryItemID: item.ID,
			SKU:             item.SKU,
			Quantity:        qty,
			ItemMetadata:    sub.Data,
		})
	}
	return nil
}

// extractItemsArray procesa la entrada "items" del payload: [{sku, quantity, ...}].
func (e *Extractor) extractItemsArray(ctx context.Context, sub *entity.FormSubmission, out *Extraction) error {
	elems, ok := sub.Data.Get("items").Items()
	if !ok {
		return nil
	}
	for i, elem := range elems {
		fields, ok := elem.Fields()
		if !ok || !fields.Has("sku") || !fields.Has("quantity") {
			continue
		}
		source := fmt.Sprintf("items[%d]", i)
		sku := strings.TrimSpace(fields.Get("sku").Text())

		qty, ok := fields.Get("quantity").Integer()
		if !ok || qty <= 0 {
			out.Warnings = append(out.Warnings, ExtractionWarning{
				Code:       WarningInvalidQuantity,
				Source:     source,
				Identifier: sku,
				Detail:     "cantidad no es un entero positivo",
			})
			continue
		}

		item, err := e.resolve(ctx, sub.CompanyID, sku, false)
		if err != nil {
			return err
		}
		if item == nil {
			out.Warnings = append(out.Warnings, unresolved(source, sku))
			continue
		}
		out.Items = append(out.Items, ItemAdjustment{
			InventoryItemID: item.ID,
			SKU:             item.SKU,
			Quantity:        qty,
			ItemMetadata:    fields,
		})
	}
	return nil
}

// resolve busca el ítem por id exacto (si byID) y luego por (empresa, SKU).
// Un id de otra empresa se resuelve igual; el motor lo rechaza con ErrTenantMismatch.
func (e *Extractor) resolve(ctx context.Context, companyID, identifier string, byID bool) (*entity.InventoryItem, error) {
	if byID {
		item, err := e.itemRepo.GetByID(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("resolver ítem %s: %w", identifier, err)
		}
		if item != nil {
			return item, nil
		}
	}
	item, err := e.itemRepo.GetByCompanyAndSKU(ctx, companyID, identifier)
	if err != nil {
		return nil, fmt.Errorf("resolver SKU %s: %w", identifier, err)
	}
	return item, nil
}

func unresolved(source, identifier string) ExtractionWarning {
	return ExtractionWarning{
		Code:       WarningUnresolvedItem,
		Source:     source,
		Identifier: identifier,
		Detail:     "ítem de inventario no encontrado",
	}
}

// isItemSelector campo que selecciona un ítem: etiqueta con product/item/sku/inventory
// u opciones tomadas de una lista. Las etiquetas de cantidad nunca son selectores.
func isItemSelector(field entity.FormField) bool {
	label := foldText(field.Label)
	if strings.Contains(label, "quantity") {
		return false
	}
	for _, kw := range []string{"product", "item", "sku", "inventory"} {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return field.IsListSourced()
}

// quantityForField cantidad asociada a un campo selector. Primero la clave derivada del id
// (item/product/sku → quantity, en ese orden); si no existe, el primer campo cuya etiqueta
// contiene "quantity" con un valor entero.
func quantityForField(form *entity.Form, data entity.Payload, fieldID string) (int, bool) {
	key := fieldID
	for _, token := range []string{"item", "product", "sku"} {
		key = strings.ReplaceAll(key, token, "quantity")
	}
	if key != fieldID && data.Has(key) {
		return data.Get(key).Integer()
	}

	for _, f := range form.Fields {
		if !strings.Contains(foldText(f.Label), "quantity") {
			continue
		}
		if n, ok := data.Get(f.ID).Integer(); ok {
			return n, true
		}
	}
	return 0, false
}

// foldText minúsculas sin tildes para comparar nombres y etiquetas.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

func nameWords(folded string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}
	return words
}
