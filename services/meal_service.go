// services/meal_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"loaf-backend/models"

	"gorm.io/gorm"
)

// customFoodSource is the slice of the custom dictionary the meal service
// resolves against.
type customFoodSource interface {
	Get(ctx context.Context, userID, id uint) (*models.CustomFood, error)
}

type MealService struct {
	db      *gorm.DB
	foodSvc *FoodService
	custom  customFoodSource
}

func NewMealService(db *gorm.DB, fs *FoodService, custom customFoodSource) *MealService {
	return &MealService{db: db, foodSvc: fs, custom: custom}
}

type MealLogRequest struct {
	Date         string  `json:"date" binding:"required"` // YYYY-MM-DD
	FoodID       string  `json:"food_id" binding:"required"`
	PortionLabel string  `json:"portion_label"`
	PortionGrams float64 `json:"portion_grams" binding:"required,gt=0"`
}

// resolveFood turns a food id into a name, portion label and absolute
// nutrient amounts for the requested portion. Catalog ids scale from
// per-100g facts, "custom_<n>" ids from the user's saved serving.
func (s *MealService) resolveFood(ctx context.Context, userID uint, req MealLogRequest) (string, string, models.Nutrition, error) {
	if customID, ok := ParseCustomFoodID(req.FoodID); ok {
		cf, err := s.custom.Get(ctx, userID, customID)
		if err != nil {
			return "", "", models.Nutrition{}, fmt.Errorf("unknown food id %q", req.FoodID)
		}
		label := req.PortionLabel
		if label == "" {
			label = "Custom serving"
		}
		return cf.Name, label, ScaleFromServing(*cf, req.PortionGrams), nil
	}

	food, ok := s.foodSvc.Get(req.FoodID)
	if !ok {
		return "", "", models.Nutrition{}, fmt.Errorf("unknown food id %q", req.FoodID)
	}
	return food.Name, req.PortionLabel, ScaleNutrition(food.Per100g, req.PortionGrams), nil
}

// LogMeal resolves the food's facts to absolute amounts for the requested
// portion and writes the snapshot. This is the only place nutrients get
// scaled; everything downstream reads them as-is.
func (s *MealService) LogMeal(ctx context.Context, userID uint, req MealLogRequest) (*models.MealLog, error) {
	name, label, nut, err := s.resolveFood(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	meal := &models.MealLog{
		UserID:       userID,
		Date:         req.Date,
		FoodID:       req.FoodID,
		FoodName:     name,
		PortionLabel: label,
		PortionGrams: req.PortionGrams,
		Calories:     nut.Calories,
		Protein:      nut.Protein,
		Carbs:        nut.Carbs,
		Fat:          nut.Fat,
		Fiber:        nut.Fiber,
		Iron:         nut.Iron,
		Calcium:      nut.Calcium,
		VitaminD:     nut.VitaminD,
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// MealsForDate satisfies the engine's MealSource. An empty day comes back
// as an empty slice, not an error.
func (s *MealService) MealsForDate(ctx context.Context, userID uint, date string) ([]models.MealLog, error) {
	var meals []models.MealLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID uint, req MealLogRequest) (*models.MealLog, error) {
	var meal models.MealLog
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error; err != nil {
		return nil, err
	}

	name, label, nut, err := s.resolveFood(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	meal.Date = req.Date
	meal.FoodID = req.FoodID
	meal.FoodName = name
	meal.PortionLabel = label
	meal.PortionGrams = req.PortionGrams
	meal.Calories = nut.Calories
	meal.Protein = nut.Protein
	meal.Carbs = nut.Carbs
	meal.Fat = nut.Fat
	meal.Fiber = nut.Fiber
	meal.Iron = nut.Iron
	meal.Calcium = nut.Calcium
	meal.VitaminD = nut.VitaminD

	if err := s.db.WithContext(ctx).Save(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		Delete(&models.MealLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *MealService) GetMeal(ctx context.Context, userID, mealID uint) (*models.MealLog, error) {
	var meal models.MealLog
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &meal, nil
}

func (s *MealService) ListRecentMeals(ctx context.Context, userID uint, limit int) ([]models.MealLog, error) {
	if limit <= 0 {
		limit = 10
	}
	var meals []models.MealLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&meals).Error
	return meals, err
}

// ListMealsByDateRange is used by the sync push to gather everything at once.
func (s *MealService) ListMealsByDateRange(ctx context.Context, userID uint, from, to string) ([]models.MealLog, error) {
	var meals []models.MealLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC, created_at ASC").
		Find(&meals).Error
	return meals, err
}

// IsNotFound reports whether err is the store's record-not-found condition,
// so callers can keep "missing data" apart from real storage failures.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
