package services

import (
	"context"
	"testing"

	"loaf-backend/models"

	"gorm.io/gorm"
)

func TestParseCustomFoodID(t *testing.T) {
	tests := []struct {
		foodID string
		wantID uint
		wantOK bool
	}{
		{"custom_12", 12, true},
		{"custom_1", 1, true},
		{"toor_dal", 0, false},
		{"custom_", 0, false},
		{"custom_abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		id, ok := ParseCustomFoodID(tt.foodID)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("ParseCustomFoodID(%q) = (%d, %v), want (%d, %v)", tt.foodID, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestCustomFoodRefRoundTrip(t *testing.T) {
	ref := CustomFoodRef(42)
	if ref != "custom_42" {
		t.Fatalf("ref = %q", ref)
	}
	id, ok := ParseCustomFoodID(ref)
	if !ok || id != 42 {
		t.Errorf("parse back = (%d, %v)", id, ok)
	}
}

func TestScaleFromServing(t *testing.T) {
	cf := models.CustomFood{
		Name: "Grandma's kheer", ServingGrams: 150,
		Calories: 300, Protein: 12, Carbs: 40, Fat: 10, Fiber: 2,
	}

	half := ScaleFromServing(cf, 75)
	if half.Calories != 150 || half.Protein != 6 || half.Carbs != 20 {
		t.Errorf("half serving = %+v", half)
	}

	// logging the saved serving as-is uses the entered numbers unchanged
	full := ScaleFromServing(cf, 150)
	if full.Calories != 300 || full.Fiber != 2 {
		t.Errorf("full serving = %+v", full)
	}

	// micronutrients are never collected for custom entries
	if full.Iron != 0 || full.Calcium != 0 || full.VitaminD != 0 {
		t.Errorf("expected zero micronutrients, got %+v", full)
	}

	if got := ScaleFromServing(models.CustomFood{}, 100); got != (models.Nutrition{}) {
		t.Errorf("zero serving grams should zero everything, got %+v", got)
	}
}

type fakeCustomFoodSource struct {
	foods map[uint]*models.CustomFood
}

func (f *fakeCustomFoodSource) Get(_ context.Context, _ uint, id uint) (*models.CustomFood, error) {
	cf, ok := f.foods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cf, nil
}

func TestResolveFoodCustomEntry(t *testing.T) {
	foods, err := NewFoodService(writeTestCatalog(t))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	custom := &fakeCustomFoodSource{foods: map[uint]*models.CustomFood{
		5: {Name: "Grandma's kheer", ServingGrams: 150, Calories: 300, Protein: 12},
	}}
	svc := &MealService{foodSvc: foods, custom: custom}

	name, label, nut, err := svc.resolveFood(context.Background(), 1, MealLogRequest{
		FoodID: "custom_5", PortionGrams: 150,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Grandma's kheer" {
		t.Errorf("name = %q", name)
	}
	if label != "Custom serving" {
		t.Errorf("label = %q, want default custom label", label)
	}
	if nut.Calories != 300 || nut.Protein != 12 {
		t.Errorf("nutrition = %+v", nut)
	}

	// an explicit label wins over the default
	_, label, _, err = svc.resolveFood(context.Background(), 1, MealLogRequest{
		FoodID: "custom_5", PortionLabel: "small bowl", PortionGrams: 75,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "small bowl" {
		t.Errorf("label = %q", label)
	}

	// unknown custom ids fail resolution like unknown catalog ids
	if _, _, _, err := svc.resolveFood(context.Background(), 1, MealLogRequest{
		FoodID: "custom_99", PortionGrams: 100,
	}); err == nil {
		t.Error("expected an error for a missing custom food")
	}
}

func TestResolveFoodCatalogEntry(t *testing.T) {
	foods, err := NewFoodService(writeTestCatalog(t))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	svc := &MealService{foodSvc: foods, custom: &fakeCustomFoodSource{}}

	name, label, nut, err := svc.resolveFood(context.Background(), 1, MealLogRequest{
		FoodID: "toor_dal", PortionLabel: "1 bowl", PortionGrams: 150,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Toor Dal" || label != "1 bowl" {
		t.Errorf("name = %q, label = %q", name, label)
	}
	if nut.Protein != 10.5 {
		t.Errorf("protein = %v, want 10.5", nut.Protein)
	}

	if _, _, _, err := svc.resolveFood(context.Background(), 1, MealLogRequest{
		FoodID: "pizza", PortionGrams: 100,
	}); err == nil {
		t.Error("expected an error for an unknown catalog id")
	}
}
