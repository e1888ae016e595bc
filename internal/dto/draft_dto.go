package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// InlineImageInput carries an optional image uploaded together with the
// draft. If the storage upload fails the draft is still created — the
// failure is logged, never propagated.
type InlineImageInput struct {
	Data      []byte  `json:"data"      validate:"required"`
	FileName  string  `json:"file_name" validate:"required"`
	ImageType string  `json:"image_type" validate:"omitempty,oneof=photo schema ambiance"`
	AltText   *string `json:"alt_text"`
}

type CreateDraftRequest struct {
	Name         string `json:"name"          validate:"required,min=2,max=200"`
	CreationMode string `json:"creation_mode" validate:"required,oneof=sourcing complete"`
	ProductType  string `json:"product_type"  validate:"required,oneof=standard custom"`

	AssignedClientID *string `json:"assigned_client_id" validate:"omitempty,uuid"`
	SupplierID       *string `json:"supplier_id"        validate:"omitempty,uuid"`
	SupplierPageURL  *string `json:"supplier_page_url"  validate:"omitempty,url"`

	CostPrice             *decimal.Decimal `json:"cost_price"`
	MarginPct             *decimal.Decimal `json:"margin_pct"`
	EstimatedSellingPrice *decimal.Decimal `json:"estimated_selling_price"`

	Description          *string `json:"description"`
	TechnicalDescription *string `json:"technical_description"`
	SellingPoints        *string `json:"selling_points"`
	SubcategoryID        *string `json:"subcategory_id" validate:"omitempty,uuid"`

	Image *InlineImageInput `json:"image"`
}

// UpdateDraftRequest is a partial update — nil fields are left untouched.
// Concurrent edits are last-write-wins by design.
type UpdateDraftRequest struct {
	Name             *string `json:"name"               validate:"omitempty,min=2,max=200"`
	AssignedClientID *string `json:"assigned_client_id" validate:"omitempty,uuid"`
	SupplierID       *string `json:"supplier_id"        validate:"omitempty,uuid"`
	SupplierPageURL  *string `json:"supplier_page_url"  validate:"omitempty,url"`

	CostPrice             *decimal.Decimal `json:"cost_price"`
	MarginPct             *decimal.Decimal `json:"margin_pct"`
	EstimatedSellingPrice *decimal.Decimal `json:"estimated_selling_price"`

	Description          *string `json:"description"`
	TechnicalDescription *string `json:"technical_description"`
	SellingPoints        *string `json:"selling_points"`
	SubcategoryID        *string `json:"subcategory_id" validate:"omitempty,uuid"`
}

type ValidateSourcingRequest struct {
	SupplierID            string           `json:"supplier_id"             validate:"required,uuid"`
	CostPrice             decimal.Decimal  `json:"cost_price"              validate:"required"`
	RequiresSample        bool             `json:"requires_sample"`
	EstimatedSellingPrice *decimal.Decimal `json:"estimated_selling_price"`
}

// RequestSampleRequest describes one sample line. When OrderID is nil a new
// order is opened for the draft's supplier.
type RequestSampleRequest struct {
	OrderID       *string         `json:"order_id"       validate:"omitempty,uuid"`
	Description   string          `json:"description"    validate:"required,min=2"`
	EstimatedCost decimal.Decimal `json:"estimated_cost" validate:"required"`
	DeliveryDays  int             `json:"delivery_days"  validate:"min=0"`
}

type RecordSampleValidationRequest struct {
	DraftIDs []string `json:"draft_ids" validate:"required,min=1,dive,uuid"`
	Result   string   `json:"result"    validate:"required,oneof=approved rejected"`
	Notes    *string  `json:"notes"`
}

type AddImageRequest struct {
	Data      []byte  `json:"data"       validate:"required"`
	FileName  string  `json:"file_name"  validate:"required"`
	ImageType string  `json:"image_type" validate:"omitempty,oneof=photo schema ambiance"`
	AltText   *string `json:"alt_text"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type DraftFilter struct {
	Mode           string `form:"mode"`
	SourcingStatus string `form:"sourcing_status"`
	SampleStatus   string `form:"sample_status"`
	SupplierID     string `form:"supplier_id"`
	Name           string `form:"name"`
	Page           int    `form:"page,default=1"   validate:"min=1"`
	Limit          int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DraftImageResponse struct {
	ID           string  `json:"id"`
	StoragePath  string  `json:"storage_path"`
	PublicURL    string  `json:"public_url"`
	IsPrimary    bool    `json:"is_primary"`
	ImageType    string  `json:"image_type"`
	AltText      *string `json:"alt_text,omitempty"`
	FileSize     int64   `json:"file_size"`
	Format       string  `json:"format"`
	DisplayOrder int     `json:"display_order"`
}

type DraftResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreationMode string `json:"creation_mode"`
	ProductType  string `json:"product_type"`

	AssignedClientID *string `json:"assigned_client_id"`
	SupplierID       *string `json:"supplier_id"`
	SupplierPageURL  *string `json:"supplier_page_url"`

	CostPrice             *decimal.Decimal `json:"cost_price"`
	MarginPct             *decimal.Decimal `json:"margin_pct"`
	EstimatedSellingPrice *decimal.Decimal `json:"estimated_selling_price"`

	Description          *string `json:"description"`
	TechnicalDescription *string `json:"technical_description"`
	SellingPoints        *string `json:"selling_points"`
	SubcategoryID        *string `json:"subcategory_id"`

	RequiresSample bool   `json:"requires_sample"`
	SampleStatus   string `json:"sample_status"`
	SourcingStatus string `json:"sourcing_status"`

	Completeness CompletenessResult   `json:"completeness"`
	Images       []DraftImageResponse `json:"images"`
	OwnerID      string               `json:"owner_id"`
}

type DraftListResponse struct {
	Data       []DraftResponse `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// CompletenessResult is the completeness score with the French labels of the
// still-missing fields, exactly as the front office displays them.
type CompletenessResult struct {
	Percentage    int      `json:"percentage"`
	MissingFields []string `json:"missing_fields"`
}
