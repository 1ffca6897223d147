package models

import (
	"gorm.io/gorm"
)

// A user-defined dictionary entry for foods the bundled catalog is
// missing. Nutrients describe one serving of ServingGrams, not 100g;
// micronutrients are not collected for custom entries.
type CustomFood struct {
	gorm.Model
	UserID       uint   `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	ServingGrams float64

	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
}
