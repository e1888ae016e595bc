package dto

import "github.com/shopspring/decimal"

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	SKU           string `form:"sku"`
	Name          string `form:"name"`
	SupplierID    string `form:"supplier_id"`
	SubcategoryID string `form:"subcategory_id"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductImageResponse struct {
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

type ProductResponse struct {
	ID          string `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	ProductType string `json:"product_type"`

	AssignedClientID *string `json:"assigned_client_id"`
	SupplierID       *string `json:"supplier_id"`
	SubcategoryID    *string `json:"subcategory_id"`

	CostPrice decimal.Decimal `json:"cost_price"`
	MarginPct decimal.Decimal `json:"margin_pct"`
	PriceHT   decimal.Decimal `json:"price_ht"`

	Description          *string `json:"description"`
	TechnicalDescription *string `json:"technical_description"`
	SellingPoints        *string `json:"selling_points"`

	Images []ProductImageResponse `json:"images"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type PriceSnapshotResponse struct {
	ID        string          `json:"id"`
	CostPrice decimal.Decimal `json:"cost_price"`
	MarginPct decimal.Decimal `json:"margin_pct"`
	PriceHT   decimal.Decimal `json:"price_ht"`
	Source    string          `json:"source"`
	CreatedAt string          `json:"created_at"`
}

// CatalogLookupResponse is returned by the public SKU lookup (no auth, cached).
type CatalogLookupResponse struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	PriceHT   decimal.Decimal `json:"price_ht"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Available bool            `json:"available"`
}
