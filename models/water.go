package models

import (
	"gorm.io/gorm"
)

type WaterLog struct {
	gorm.Model
	UserID   uint   `gorm:"index;not null"`
	Date     string `gorm:"index;size:10;not null"` // YYYY-MM-DD
	AmountML float64
}

// WaterPreference drives the reminder schedule; one row per user.
type WaterPreference struct {
	gorm.Model
	UserID           uint    `gorm:"uniqueIndex;not null"`
	DailyTargetML    float64 `gorm:"default:2000"`
	ReminderInterval int     `gorm:"default:120"` // minutes
	RemindersOn      bool    `gorm:"default:true"`
}
