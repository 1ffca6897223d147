package services

import (
	"context"
	"errors"
	"strings"

	"loaf-backend/config"
	"loaf-backend/models"
	"loaf-backend/utils"

	"gorm.io/gorm"
)

type ProfileInput struct {
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	HeightCm    float64  `json:"height_cm"`
	WeightKg    float64  `json:"weight_kg"`
	DietType    string   `json:"diet_type"`
	ActiveGoals []string `json:"active_goals"`
}

func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	out := map[string]interface{}{
		"id":           user.ID,
		"user_id":      user.UserID,
		"email":        user.Email,
		"full_name":    user.FullName,
		"age":          user.Age,
		"gender":       user.Gender,
		"height_cm":    user.HeightCm,
		"weight_kg":    user.WeightKg,
		"diet_type":    user.DietType,
		"active_goals": splitGoals(user.ActiveGoals),
		"onboarded":    user.Onboarded,
	}

	if bmi, err := utils.CalculateBMI(user.HeightCm, user.WeightKg); err == nil {
		out["bmi"] = bmi
		out["bmi_category"] = utils.BMICategory(bmi)
	}

	return out, nil
}

func UpdateUserProfile(email string, input ProfileInput) error {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return errors.New("user not found or disabled")
	}

	if input.Age > 0 {
		user.Age = input.Age
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.HeightCm > 0 {
		user.HeightCm = input.HeightCm
	}
	if input.WeightKg > 0 {
		user.WeightKg = input.WeightKg
	}
	if input.DietType != "" {
		user.DietType = input.DietType
	}
	if input.ActiveGoals != nil {
		user.ActiveGoals = strings.Join(input.ActiveGoals, ",")
	}

	return config.DB.Save(&user).Error
}

func CompleteUserOnboarding(email string, input ProfileInput) error {
	var user models.User
	if err := config.DB.
		Where("email = ? AND disabled = ?", email, false).
		First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}

	user.Age = input.Age
	user.Gender = input.Gender
	user.HeightCm = input.HeightCm
	user.WeightKg = input.WeightKg
	user.DietType = input.DietType
	user.ActiveGoals = strings.Join(input.ActiveGoals, ",")
	user.Onboarded = true

	return config.DB.Save(&user).Error
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func DeleteUser(email string) error {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return result.Error
	}
	user.Disabled = true
	return config.DB.Save(&user).Error
}

// splitGoals tolerates spaces around the commas and drops empty entries,
// so stored values like "weight_loss, muscle_gain" come back clean.
func splitGoals(goals string) []string {
	out := []string{}
	for _, g := range strings.Split(goals, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// ---------- engine ProfileSource ----------

// ProfileStore adapts the users table to the engine's ProfileSource. A user
// who has not finished onboarding yields nil: the engine has no
// demographics to select an RDA bucket with.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore { return &ProfileStore{db: db} }

func (p *ProfileStore) Profile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := p.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.Onboarded {
		return nil, nil
	}
	return &user, nil
}
