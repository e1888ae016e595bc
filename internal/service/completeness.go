package service

import (
	"math"
	"strings"

	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"

	"github.com/shopspring/decimal"
)

// requiredField couples a draft attribute with the French label the front
// office displays when the field is still missing, and the predicate that
// decides whether it counts as filled.
type requiredField struct {
	name   string
	label  string
	filled func(d *model.Draft) bool
}

func stringFilled(get func(d *model.Draft) *string) func(*model.Draft) bool {
	return func(d *model.Draft) bool {
		v := get(d)
		return v != nil && strings.TrimSpace(*v) != ""
	}
}

func decimalFilled(get func(d *model.Draft) *decimal.Decimal) func(*model.Draft) bool {
	return func(d *model.Draft) bool { return get(d) != nil }
}

var (
	fieldName = requiredField{"name", "Nom du produit", func(d *model.Draft) bool {
		return strings.TrimSpace(d.Name) != ""
	}}
	fieldSupplierPageURL = requiredField{"supplier_page_url", "URL page fournisseur",
		stringFilled(func(d *model.Draft) *string { return d.SupplierPageURL })}
	fieldAssignedClient = requiredField{"assigned_client_id", "Client attribué", func(d *model.Draft) bool {
		return d.AssignedClientID != nil
	}}
	fieldCostPrice = requiredField{"cost_price", "Prix d'achat",
		decimalFilled(func(d *model.Draft) *decimal.Decimal { return d.CostPrice })}
	fieldDescription = requiredField{"description", "Description",
		stringFilled(func(d *model.Draft) *string { return d.Description })}
	fieldSubcategory = requiredField{"subcategory_id", "Sous-catégorie", func(d *model.Draft) bool {
		return d.SubcategoryID != nil
	}}
)

type modeTypeKey struct {
	mode        string
	productType string
}

// requiredFieldSets is the single source of truth for which fields the
// completeness denominator counts, per (creation_mode, product_type).
var requiredFieldSets = map[modeTypeKey][]requiredField{
	{model.ModeSourcing, model.TypeStandard}: {fieldName, fieldSupplierPageURL},
	{model.ModeSourcing, model.TypeCustom}:   {fieldName, fieldSupplierPageURL, fieldAssignedClient},
	{model.ModeComplete, model.TypeStandard}: {fieldName, fieldCostPrice, fieldDescription, fieldSubcategory},
	{model.ModeComplete, model.TypeCustom}:   {fieldName, fieldCostPrice, fieldDescription, fieldSubcategory, fieldAssignedClient},
}

// EvaluateCompleteness scores a draft against the required-field set of its
// (mode, type) pair. Deterministic and side-effect-free: usable both for UI
// feedback and as the promotion eligibility gate.
func EvaluateCompleteness(d *model.Draft) dto.CompletenessResult {
	fields, ok := requiredFieldSets[modeTypeKey{d.CreationMode, d.ProductType}]
	if !ok {
		// Unknown combination: treat as the strictest set.
		fields = requiredFieldSets[modeTypeKey{model.ModeComplete, model.TypeCustom}]
	}

	filled := 0
	missing := make([]string, 0)
	for _, f := range fields {
		if f.filled(d) {
			filled++
		} else {
			missing = append(missing, f.label)
		}
	}

	pct := int(math.Round(100 * float64(filled) / float64(len(fields))))
	return dto.CompletenessResult{Percentage: pct, MissingFields: missing}
}
