package dto

import "github.com/shopspring/decimal"

type PricePreviewRequest struct {
	CostPrice decimal.Decimal `json:"cost_price" validate:"required"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}

// PricePreviewResponse carries the computed minimum selling price. LowMargin
// flags margins below 5% — a soft warning the UI must ask the buyer to
// confirm, not a rejection.
type PricePreviewResponse struct {
	MinimumSellingPrice decimal.Decimal `json:"minimum_selling_price"`
	LowMargin           bool            `json:"low_margin"`
	Warning             *string         `json:"warning,omitempty"`
}
