package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"loaf-backend/models"

	"gorm.io/gorm"
)

// CustomFoodService keeps each user's personal food dictionary: entries
// for things the bundled catalog is missing. Custom entries are logged
// exactly like catalog foods; their id carries a "custom_" prefix so the
// meal service knows where to resolve from.
type CustomFoodService struct {
	db *gorm.DB
}

func NewCustomFoodService(db *gorm.DB) *CustomFoodService {
	return &CustomFoodService{db: db}
}

type CustomFoodInput struct {
	Name         string  `json:"name" binding:"required"`
	ServingGrams float64 `json:"serving_grams" binding:"required,gt=0"`
	Calories     float64 `json:"calories" binding:"required,gt=0"`
	Protein      float64 `json:"protein" binding:"gte=0"`
	Carbs        float64 `json:"carbs" binding:"gte=0"`
	Fat          float64 `json:"fat" binding:"gte=0"`
	Fiber        float64 `json:"fiber" binding:"gte=0"`
}

func (s *CustomFoodService) Save(ctx context.Context, userID uint, input CustomFoodInput) (*models.CustomFood, error) {
	cf := &models.CustomFood{
		UserID:       userID,
		Name:         strings.TrimSpace(input.Name),
		ServingGrams: input.ServingGrams,
		Calories:     input.Calories,
		Protein:      input.Protein,
		Carbs:        input.Carbs,
		Fat:          input.Fat,
		Fiber:        input.Fiber,
	}
	if err := s.db.WithContext(ctx).Create(cf).Error; err != nil {
		return nil, err
	}
	return cf, nil
}

func (s *CustomFoodService) List(ctx context.Context, userID uint) ([]models.CustomFood, error) {
	var foods []models.CustomFood
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&foods).Error
	return foods, err
}

func (s *CustomFoodService) Get(ctx context.Context, userID, id uint) (*models.CustomFood, error) {
	var cf models.CustomFood
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&cf).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &cf, nil
}

func (s *CustomFoodService) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CustomFood{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

const customFoodPrefix = "custom_"

// CustomFoodRef builds the food id a meal log stores for a custom entry.
func CustomFoodRef(id uint) string {
	return fmt.Sprintf("%s%d", customFoodPrefix, id)
}

// ParseCustomFoodID recognizes "custom_<n>" food ids. Catalog ids fall
// through with ok=false.
func ParseCustomFoodID(foodID string) (uint, bool) {
	rest, found := strings.CutPrefix(foodID, customFoodPrefix)
	if !found {
		return 0, false
	}
	n, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// ScaleFromServing derives absolute amounts for a portion from a custom
// food's per-serving facts: (perServing / servingGrams) * grams.
func ScaleFromServing(cf models.CustomFood, grams float64) models.Nutrition {
	if cf.ServingGrams <= 0 {
		return models.Nutrition{}
	}
	factor := grams / cf.ServingGrams
	return models.Nutrition{
		Calories: cf.Calories * factor,
		Protein:  cf.Protein * factor,
		Carbs:    cf.Carbs * factor,
		Fat:      cf.Fat * factor,
		Fiber:    cf.Fiber * factor,
	}
}
