package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserID   string `gorm:"uniqueIndex;not null"` // short public handle, e.g. "jenna41923"
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	// Demographics used for RDA selection
	Age    int
	Gender string

	HeightCm    float64
	WeightKg    float64
	DietType    string // "vegetarian" | "vegan" | "non-vegetarian" …
	ActiveGoals string // comma-sep goal ids, e.g. "weight_loss,muscle_gain"

	Onboarded bool
	Disabled  bool
}
