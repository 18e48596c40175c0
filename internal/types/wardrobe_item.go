package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WardrobeItem is one photographed garment owned by a user. Subcategory is
// nullable: items added through manual browsing carry only the coarse
// category and never enter weather recommendations.
type WardrobeItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Category    string         `gorm:"column:category;not null" json:"category"`
	Subcategory *string        `gorm:"column:subcategory" json:"subcategory,omitempty"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url"`
	Available   bool           `gorm:"column:available;not null;default:true" json:"available"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WardrobeItem) TableName() string { return "wardrobe_item" }
