package models

import (
	"gorm.io/gorm"
)

// One logged meal row. Nutrient columns are resolved to absolute amounts
// (scaled from the food's per-100g facts) at write time; readers never
// re-scale them.
type MealLog struct {
	gorm.Model
	UserID uint   `gorm:"index;not null"`
	Date   string `gorm:"index;size:10;not null"` // YYYY-MM-DD

	FoodID       string `gorm:"size:64;not null"`
	FoodName     string
	PortionLabel string  // "1 bowl", "100 g", …
	PortionGrams float64

	Calories float64 // kcal
	Protein  float64 // g
	Carbs    float64 // g
	Fat      float64 // g
	Fiber    float64 // g
	Iron     float64 // mg
	Calcium  float64 // mg
	VitaminD float64 // µg
}
