package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a published catalog record, created exclusively by promoting a
// draft. Commercial fields are copies frozen at promotion time; later catalog
// edits go through the ordinary product update path.
type Product struct {
	ID  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU string    `gorm:"uniqueIndex;not null"`

	Name        string `gorm:"index;not null"`
	ProductType string `gorm:"not null;default:'standard'"`

	AssignedClientID *uuid.UUID `gorm:"type:uuid"`
	SupplierID       *uuid.UUID `gorm:"type:uuid;index"`
	SubcategoryID    *uuid.UUID `gorm:"type:uuid;index"`

	CostPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MarginPct decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	// PriceHT is the minimum selling price excluding tax, computed at
	// promotion from the estimated price or the margin calculator.
	PriceHT decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Description          *string
	TechnicalDescription *string
	SellingPoints        *string

	SourceDraftID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Images   []ProductImage `gorm:"foreignKey:ProductID"`
	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
}

func (Product) TableName() string { return "products" }

// ProductImage mirrors DraftImage; rows are created by migrating a draft's
// images during promotion, preserving order and the primary flag.
type ProductImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	StoragePath  string    `gorm:"not null"`
	PublicURL    string
	IsPrimary    bool   `gorm:"not null;default:false"`
	ImageType    string `gorm:"not null;default:'photo'"`
	AltText      *string
	FileSize     int64
	Format       string
	DisplayOrder int `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProductImage) TableName() string { return "product_images" }
