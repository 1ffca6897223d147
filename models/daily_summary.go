package models

import (
	"gorm.io/gorm"
)

// Per-day rollup of meals + water, recomputed after every write and kept
// as a row so it can be bulk-synced to the backup store.
type DailySummary struct {
	gorm.Model
	UserID uint   `gorm:"index:idx_summary_user_date,unique;not null"`
	Date   string `gorm:"index:idx_summary_user_date,unique;size:10;not null"`

	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
	Iron     float64
	Calcium  float64
	VitaminD float64
	WaterML  float64
}
