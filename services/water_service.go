package services

import (
	"context"
	"errors"

	"loaf-backend/models"

	"gorm.io/gorm"
)

type WaterService struct{ db *gorm.DB }

func NewWaterService(db *gorm.DB) *WaterService { return &WaterService{db: db} }

func (s *WaterService) LogWater(ctx context.Context, userID uint, date string, amountML float64) (*models.WaterLog, error) {
	log := &models.WaterLog{UserID: userID, Date: date, AmountML: amountML}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

func (s *WaterService) WaterForDate(ctx context.Context, userID uint, date string) ([]models.WaterLog, error) {
	var logs []models.WaterLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (s *WaterService) TotalForDate(ctx context.Context, userID uint, date string) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).
		Model(&models.WaterLog{}).
		Where("user_id = ? AND date = ?", userID, date).
		Select("COALESCE(SUM(amount_ml), 0)").
		Scan(&total).Error
	return total, err
}

func (s *WaterService) GetLog(ctx context.Context, userID, logID uint) (*models.WaterLog, error) {
	var log models.WaterLog
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", logID, userID).
		First(&log).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &log, nil
}

func (s *WaterService) DeleteLog(ctx context.Context, userID, logID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", logID, userID).
		Delete(&models.WaterLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPreferences returns defaults when the user never saved any.
func (s *WaterService) GetPreferences(ctx context.Context, userID uint) (*models.WaterPreference, error) {
	var pref models.WaterPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.WaterPreference{UserID: userID, DailyTargetML: 2000, ReminderInterval: 120, RemindersOn: true}, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (s *WaterService) UpsertPreferences(ctx context.Context, userID uint, targetML float64, intervalMin int, remindersOn bool) (*models.WaterPreference, error) {
	pref := models.WaterPreference{
		UserID:           userID,
		DailyTargetML:    targetML,
		ReminderInterval: intervalMin,
		RemindersOn:      remindersOn,
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Assign(pref).
		FirstOrCreate(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (s *WaterService) ListByDateRange(ctx context.Context, userID uint, from, to string) ([]models.WaterLog, error) {
	var logs []models.WaterLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC, created_at ASC").
		Find(&logs).Error
	return logs, err
}
