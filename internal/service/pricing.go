package service

import (
	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"

	"github.com/shopspring/decimal"
)

// lowMarginThreshold is the margin below which the UI must ask the buyer for
// explicit confirmation. Soft warning only — never a rejection.
var lowMarginThreshold = decimal.NewFromInt(5)

var hundred = decimal.NewFromInt(100)

// MinimumSellingPrice computes cost × (1 + margin/100), rounded to cents.
// Pure function: used as a live preview during editing and as the
// authoritative fallback when promotion finds no estimated selling price.
func MinimumSellingPrice(costPrice, marginPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(marginPct.Div(hundred))
	return costPrice.Mul(factor).Round(2)
}

// PreviewPrice validates the inputs and returns the computed price with the
// low-margin flag. A non-positive cost price is a hard validation failure.
func PreviewPrice(req dto.PricePreviewRequest) (*dto.PricePreviewResponse, error) {
	if req.CostPrice.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.Validation(apierror.CodeCostPriceInvalid, "Le prix d'achat doit être strictement positif")
	}

	resp := &dto.PricePreviewResponse{
		MinimumSellingPrice: MinimumSellingPrice(req.CostPrice, req.MarginPct),
	}
	if req.MarginPct.LessThan(lowMarginThreshold) {
		resp.LowMargin = true
		warning := "Marge inférieure à 5% — confirmation requise"
		resp.Warning = &warning
	}
	return resp, nil
}
