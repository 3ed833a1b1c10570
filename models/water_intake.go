package models

import "time"

type WaterIntake struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      uint      `gorm:"uniqueIndex:idx_water_user_date;not null" json:"-"`
	Date        string    `gorm:"size:10;uniqueIndex:idx_water_user_date;not null" json:"date"`
	Weight      float64   `json:"weight"` // kg
	Glasses     int       `json:"glasses"`
	ExtraMl     float64   `json:"extra_ml"`
	Consumed    float64   `json:"consumed"`    // ml
	Recommended float64   `json:"recommended"` // ml
	UpdatedAt   time.Time `json:"updated_at"`
}
