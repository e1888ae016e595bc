package model

import (
	"time"

	"github.com/google/uuid"
)

// DraftImage is owned by exactly one draft. Among a draft's images at most
// one has IsPrimary = true; the first image attached to an image-less draft
// is automatically made primary.
type DraftImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DraftID      uuid.UUID `gorm:"type:uuid;not null;index"`
	StoragePath  string    `gorm:"not null"`
	PublicURL    string
	IsPrimary    bool   `gorm:"not null;default:false"`
	ImageType    string `gorm:"not null;default:'photo'"` // photo | schema | ambiance
	AltText      *string
	FileSize     int64
	Format       string
	DisplayOrder int `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (DraftImage) TableName() string { return "draft_images" }
