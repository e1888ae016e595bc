package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a sourcing partner with commercial data.
type Supplier struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyName  string    `gorm:"not null"`
	SIRET        string    `gorm:"column:siret;uniqueIndex;not null"`
	Email        *string
	Phone        *string
	Address      *string
	PaymentTerms *string
	WebsiteURL   *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Contacts []SupplierContact `gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string { return "suppliers" }

// SupplierContact is a named person at a supplier (sales rep, logistics).
type SupplierContact struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"not null"`
	Role       *string
	Email      *string
	Phone      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SupplierContact) TableName() string { return "supplier_contacts" }
