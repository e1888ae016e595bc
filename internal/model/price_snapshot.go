package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price sources recorded at promotion.
const (
	PriceSourceEstimate = "estimate" // buyer-entered estimated selling price
	PriceSourceMargin   = "margin"   // derived from cost × (1 + margin/100)
)

// PriceSnapshot records how a product's price_ht was obtained at promotion
// time. Rows are immutable — never updated or deleted.
type PriceSnapshot struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MarginPct decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	PriceHT   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Source    string          `gorm:"not null"` // estimate | margin
	CreatedAt time.Time
}

func (PriceSnapshot) TableName() string { return "price_snapshots" }
