package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Creation modes. Sourcing is the fast path used while the buyer is still
// negotiating with the supplier; complete requires full commercial data.
const (
	ModeSourcing = "sourcing"
	ModeComplete = "complete"
)

// Product types. Custom products are produced for a single assigned client.
const (
	TypeStandard = "standard"
	TypeCustom   = "custom"
)

// Sample statuses.
const (
	SampleNone           = "none"
	SampleRequestPending = "request_pending"
	SampleApproved       = "approved"
	SampleRejected       = "rejected"
)

// Sourcing statuses.
const (
	SourcingDraft           = "draft"
	SourcingValidated       = "sourcing_validated"
	SourcingReadyForCatalog = "ready_for_catalog"
)

// Draft is an in-progress, owner-scoped product record not yet visible in the
// catalog. Commercial fields are nullable on purpose: which ones must be
// filled depends on (CreationMode, ProductType) — see service.EvaluateCompleteness.
type Draft struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	CreationMode string    `gorm:"not null;default:'complete'"`
	ProductType  string    `gorm:"not null;default:'standard'"`

	AssignedClientID *uuid.UUID `gorm:"type:uuid"`
	SupplierID       *uuid.UUID `gorm:"type:uuid;index"`
	SupplierPageURL  *string

	CostPrice             *decimal.Decimal `gorm:"type:decimal(10,2)"`
	MarginPct             *decimal.Decimal `gorm:"type:decimal(5,2)"`
	EstimatedSellingPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`

	Description          *string
	TechnicalDescription *string
	SellingPoints        *string
	SubcategoryID        *uuid.UUID `gorm:"type:uuid;index"`

	RequiresSample bool   `gorm:"not null;default:false"`
	SampleStatus   string `gorm:"not null;default:'none'"`
	SourcingStatus string `gorm:"not null;default:'draft';index"`

	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Images   []DraftImage `gorm:"foreignKey:DraftID"`
	Supplier *Supplier    `gorm:"foreignKey:SupplierID"`
}

func (Draft) TableName() string { return "product_drafts" }
