package models

import "time"

// NutritionLog is one food item logged against a day.
type NutritionLog struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index:idx_nutrition_user_date;not null" json:"user_id"`
	Date   string `gorm:"size:10;index:idx_nutrition_user_date;not null" json:"date"` // YYYY-MM-DD

	Name                string  `json:"name"`
	ServingSizeG        float64 `json:"serving_size_g"`
	Calories            float64 `json:"calories"`
	ProteinG            float64 `json:"protein_g"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FatTotalG           float64 `json:"fat_total_g"`
	FatSaturatedG       float64 `json:"fat_saturated_g"`
	FiberG              float64 `json:"fiber_g"`
	SugarG              float64 `json:"sugar_g"`
	CholesterolMg       float64 `json:"cholesterol_mg"`
	SodiumMg            float64 `json:"sodium_mg"`
	PotassiumMg         float64 `json:"potassium_mg"`

	LoggedAt time.Time `json:"logged_at"`
}
