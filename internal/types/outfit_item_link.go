package types

import (
	"time"

	"github.com/google/uuid"
)

// OutfitItemLink pins the concrete item a cell showed at save time. The item
// reference is deliberately not cascaded: a deleted wardrobe item leaves the
// link in place and reads degrade to a placeholder entry.
type OutfitItemLink struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OutfitID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"outfit_id"`
	Outfit    *Outfit       `gorm:"constraint:OnDelete:CASCADE;foreignKey:OutfitID;references:ID" json:"outfit,omitempty"`
	ItemID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"item_id"`
	Item      *WardrobeItem `gorm:"foreignKey:ItemID;references:ID" json:"item,omitempty"`
	CellKey   string        `gorm:"column:cell_key;not null" json:"cell_key"`
	CreatedAt time.Time     `gorm:"not null;default:now()" json:"created_at"`
}

func (OutfitItemLink) TableName() string { return "outfit_item_link" }
