package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OutfitCell is one slot of a persisted layout. CellKey is the engine-side
// cell identifier; item links join back through it.
type OutfitCell struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OutfitID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"outfit_id"`
	Outfit        *Outfit        `gorm:"constraint:OnDelete:CASCADE;foreignKey:OutfitID;references:ID" json:"outfit,omitempty"`
	CellKey       string         `gorm:"column:cell_key;not null" json:"cell_key"`
	Column        int            `gorm:"column:grid_column;not null" json:"column"`
	Flex          float64        `gorm:"column:flex;not null" json:"flex"`
	Position      int            `gorm:"column:position;not null" json:"position"`
	Subcategories datatypes.JSON `gorm:"column:subcategories;type:jsonb" json:"subcategories"`
	ItemIndex     int            `gorm:"column:item_index;not null;default:0" json:"item_index"`
	Recommended   bool           `gorm:"column:recommended;not null;default:false" json:"recommended"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (OutfitCell) TableName() string { return "outfit_cell" }
