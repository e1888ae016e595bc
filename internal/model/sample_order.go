package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sample order statuses. Orders only move forward through these —
// draft → pending_approval → approved → delivered.
const (
	OrderDraft           = "draft"
	OrderPendingApproval = "pending_approval"
	OrderApproved        = "approved"
	OrderDelivered       = "delivered"
)

// ValidOrderTransitions is the authoritative transition table for sample
// orders. Anything not listed here is rejected as a conflict.
var ValidOrderTransitions = map[string]string{
	OrderDraft:           OrderPendingApproval,
	OrderPendingApproval: OrderApproved,
	OrderApproved:        OrderDelivered,
}

// Sample order item statuses.
const (
	ItemPending  = "pending"
	ItemApproved = "approved"
	ItemRejected = "rejected"
)

// SampleOrder groups sample requests sent to one supplier so they can be
// negotiated and shipped together rather than as separate approval cycles.
// Nothing reaches the supplier until the order is explicitly approved.
type SampleOrder struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status               string          `gorm:"not null;default:'draft';index"`
	EstimatedTotal       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ExpectedDeliveryDays int             `gorm:"not null;default:0"`
	OwnerID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ApprovedBy           *uuid.UUID      `gorm:"type:uuid"`
	ApprovalNotes        *string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Items    []SampleOrderItem `gorm:"foreignKey:OrderID"`
	Supplier *Supplier         `gorm:"foreignKey:SupplierID"`
}

func (SampleOrder) TableName() string { return "sample_orders" }

// SampleOrderItem belongs to exactly one order and references exactly one
// draft. Items cannot be added once the order has left the draft state.
type SampleOrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	DraftID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description   string          `gorm:"not null"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DeliveryDays  int             `gorm:"not null;default:0"`
	Status        string          `gorm:"not null;default:'pending'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (SampleOrderItem) TableName() string { return "sample_order_items" }
