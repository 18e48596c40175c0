package types

import (
	"time"

	"github.com/google/uuid"
)

// Outfit is one frozen layout snapshot. The (user_id, date) unique index
// backs up the caller-side check-then-insert: a race on save degrades to the
// same "outfit already exists" condition instead of a second row.
type Outfit struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index:idx_outfit_user_date,unique" json:"user_id"`
	User              *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Date              time.Time        `gorm:"column:date;not null;index:idx_outfit_user_date,unique" json:"date"`
	WeatherSnapshotID uuid.UUID        `gorm:"type:uuid;not null;index" json:"weather_snapshot_id"`
	WeatherSnapshot   *WeatherSnapshot `gorm:"constraint:OnDelete:RESTRICT;foreignKey:WeatherSnapshotID;references:ID" json:"weather_snapshot,omitempty"`
	CreatedAt         time.Time        `gorm:"not null;default:now()" json:"created_at"`
}

func (Outfit) TableName() string { return "outfit" }
