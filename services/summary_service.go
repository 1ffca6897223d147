package services

import (
	"context"

	"loaf-backend/models"

	"gorm.io/gorm"
)

// SummaryService maintains the per-day meal+water rollup rows. Summaries
// are recomputed from the ledgers (never incremented in place) so a missed
// update can't leave them drifting.
type SummaryService struct {
	db    *gorm.DB
	meals *MealService
	water *WaterService
}

func NewSummaryService(db *gorm.DB, meals *MealService, water *WaterService) *SummaryService {
	return &SummaryService{db: db, meals: meals, water: water}
}

func (s *SummaryService) ComputeDailySummary(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	meals, err := s.meals.MealsForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	waterML, err := s.water.TotalForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	sum := &models.DailySummary{UserID: userID, Date: date, WaterML: waterML}
	for _, m := range meals {
		sum.Calories += m.Calories
		sum.Protein += m.Protein
		sum.Carbs += m.Carbs
		sum.Fat += m.Fat
		sum.Fiber += m.Fiber
		sum.Iron += m.Iron
		sum.Calcium += m.Calcium
		sum.VitaminD += m.VitaminD
	}
	return sum, nil
}

// RefreshDailySummary recomputes and upserts the row for (user, date).
// Called after every meal or water write.
func (s *SummaryService) RefreshDailySummary(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	sum, err := s.ComputeDailySummary(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Assign(*sum).
		FirstOrCreate(sum).Error
	if err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *SummaryService) Range(ctx context.Context, userID uint, from, to string) ([]models.DailySummary, error) {
	var rows []models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}
