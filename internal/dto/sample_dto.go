package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ApproveOrderRequest struct {
	Notes *string `json:"notes"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type SampleOrderFilter struct {
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SampleOrderItemResponse struct {
	ID            string          `json:"id"`
	DraftID       string          `json:"draft_id"`
	Description   string          `json:"description"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	DeliveryDays  int             `json:"delivery_days"`
	Status        string          `json:"status"`
}

type SampleOrderResponse struct {
	ID                   string                    `json:"id"`
	SupplierID           string                    `json:"supplier_id"`
	Status               string                    `json:"status"`
	EstimatedTotal       decimal.Decimal           `json:"estimated_total"`
	ExpectedDeliveryDays int                       `json:"expected_delivery_days"`
	OwnerID              string                    `json:"owner_id"`
	ApprovedBy           *string                   `json:"approved_by,omitempty"`
	ApprovalNotes        *string                   `json:"approval_notes,omitempty"`
	Items                []SampleOrderItemResponse `json:"items"`
}

type SampleOrderListResponse struct {
	Data       []SampleOrderResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

// RequestSampleResponse returns the order/item pair created or extended by a
// sample request.
type RequestSampleResponse struct {
	OrderID string `json:"order_id"`
	ItemID  string `json:"item_id"`
}
