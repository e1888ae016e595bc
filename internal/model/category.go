package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies products. Subcategories are categories with a parent;
// drafts and products reference the subcategory level.
type Category struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string     `gorm:"not null;uniqueIndex:idx_category_name_parent"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_category_name_parent"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Category) TableName() string { return "categories" }
