package services

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"loaf-backend/models"
)

// FoodService serves the bundled food database: a read-only catalog of
// nutrition-per-100g facts loaded once at startup.
type FoodService struct {
	foods []models.Food
	byID  map[string]*models.Food
}

type foodDatabaseFile struct {
	Foods []models.Food `json:"foods"`
}

func NewFoodService(path string) (*FoodService, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read food database: %w", err)
	}
	var file foodDatabaseFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse food database: %w", err)
	}

	s := &FoodService{
		foods: file.Foods,
		byID:  make(map[string]*models.Food, len(file.Foods)),
	}
	for i := range s.foods {
		s.byID[s.foods[i].ID] = &s.foods[i]
	}
	return s, nil
}

func (s *FoodService) Get(id string) (*models.Food, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// Search matches the query against names and aliases, case-insensitive
// substring both ways so "dal" finds "Toor Dal" and "chicken curry" finds
// "chicken".
func (s *FoodService) Search(query string) []models.Food {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []models.Food
	for _, f := range s.foods {
		if foodMatches(f, q) {
			out = append(out, f)
		}
	}
	return out
}

func foodMatches(f models.Food, q string) bool {
	name := strings.ToLower(f.Name)
	if strings.Contains(name, q) || strings.Contains(q, name) {
		return true
	}
	for _, a := range f.Aliases {
		alias := strings.ToLower(a)
		if strings.Contains(alias, q) || strings.Contains(q, alias) {
			return true
		}
	}
	return false
}

// Names returns every food name, capped for prompt building.
func (s *FoodService) Names(limit int) []string {
	if limit <= 0 || limit > len(s.foods) {
		limit = len(s.foods)
	}
	names := make([]string, 0, limit)
	for _, f := range s.foods[:limit] {
		names = append(names, f.Name)
	}
	return names
}

// ScaleNutrition derives absolute amounts for a portion from per-100g
// facts: (per100g / 100) * grams. No rounding here; display code rounds
// at the final step.
func ScaleNutrition(per100g models.Nutrition, grams float64) models.Nutrition {
	factor := grams / 100
	return models.Nutrition{
		Calories: per100g.Calories * factor,
		Protein:  per100g.Protein * factor,
		Carbs:    per100g.Carbs * factor,
		Fat:      per100g.Fat * factor,
		Fiber:    per100g.Fiber * factor,
		Iron:     per100g.Iron * factor,
		Calcium:  per100g.Calcium * factor,
		VitaminD: per100g.VitaminD * factor,
	}
}
