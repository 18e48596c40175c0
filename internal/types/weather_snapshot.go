package types

import (
	"time"

	"github.com/google/uuid"
)

type WeatherSnapshot struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	City        string    `gorm:"column:city" json:"city"`
	Date        time.Time `gorm:"column:date;not null" json:"date"`
	TempMin     float64   `gorm:"column:temp_min;not null" json:"temp_min"`
	TempMax     float64   `gorm:"column:temp_max;not null" json:"temp_max"`
	Description string    `gorm:"column:description" json:"description"`
	IconCode    string    `gorm:"column:icon_code" json:"icon_code"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (WeatherSnapshot) TableName() string { return "weather_snapshot" }
