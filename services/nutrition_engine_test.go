package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"loaf-backend/models"
)

type fakeMealSource struct {
	meals  map[string][]models.MealLog
	errFor map[string]error
}

func (f *fakeMealSource) MealsForDate(_ context.Context, _ uint, date string) ([]models.MealLog, error) {
	if err := f.errFor[date]; err != nil {
		return nil, err
	}
	return f.meals[date], nil
}

type fakeProfileSource struct {
	user *models.User
	err  error
}

func (f *fakeProfileSource) Profile(context.Context, uint) (*models.User, error) {
	return f.user, f.err
}

func newTestEngine(meals *fakeMealSource, profile *fakeProfileSource) *NutritionEngine {
	e := NewNutritionEngine(meals, profile)
	e.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestGetDailyIntakeNoMeals(t *testing.T) {
	e := newTestEngine(&fakeMealSource{}, &fakeProfileSource{})

	intake, err := e.GetDailyIntake(context.Background(), 1, "2025-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intake != nil {
		t.Fatalf("expected nil intake for empty day, got %+v", intake)
	}
}

func TestGetDailyIntakeSumsAndRounds(t *testing.T) {
	meals := &fakeMealSource{meals: map[string][]models.MealLog{
		"2025-03-01": {
			{Calories: 320.4, Protein: 12.34, Carbs: 45.6, Fat: 10.1, Fiber: 3.3, Iron: 2.1, Calcium: 120.6, VitaminD: 1.5},
			{Calories: 180.3, Protein: 10.2, Carbs: 30.1, Fat: 5.3, Fiber: 2.2, Iron: 1.2, Calcium: 80.2, VitaminD: 0.7},
		},
	}}
	e := newTestEngine(meals, &fakeProfileSource{})

	intake, err := e.GetDailyIntake(context.Background(), 1, "2025-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intake == nil {
		t.Fatal("expected an intake")
	}
	if intake.Date != "2025-03-01" {
		t.Errorf("date = %q", intake.Date)
	}
	if intake.MealCount != 2 {
		t.Errorf("meal count = %d, want 2", intake.MealCount)
	}
	// Calories and calcium round to whole numbers, everything else to one
	// decimal, after summation.
	if intake.Calories != 501 {
		t.Errorf("calories = %v, want 501", intake.Calories)
	}
	if intake.Calcium != 201 {
		t.Errorf("calcium = %v, want 201", intake.Calcium)
	}
	if intake.Protein != 22.5 {
		t.Errorf("protein = %v, want 22.5", intake.Protein)
	}
	if intake.Carbs != 75.7 {
		t.Errorf("carbs = %v, want 75.7", intake.Carbs)
	}
	if intake.Fat != 15.4 {
		t.Errorf("fat = %v, want 15.4", intake.Fat)
	}
	if intake.Fiber != 5.5 {
		t.Errorf("fiber = %v, want 5.5", intake.Fiber)
	}
	if intake.Iron != 3.3 {
		t.Errorf("iron = %v, want 3.3", intake.Iron)
	}
	if intake.VitaminD != 2.2 {
		t.Errorf("vitamin D = %v, want 2.2", intake.VitaminD)
	}
}

func TestGetDailyIntakePropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	meals := &fakeMealSource{errFor: map[string]error{"2025-03-01": boom}}
	e := newTestEngine(meals, &fakeProfileSource{})

	if _, err := e.GetDailyIntake(context.Background(), 1, "2025-03-01"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSelectRdaValues(t *testing.T) {
	tests := []struct {
		name   string
		age    int
		gender string
		want   RdaValues
	}{
		{"adult male", 30, "Male", rdaAdultMale},
		{"adult female", 30, "Female", rdaAdultFemale},
		{"senior male", 55, "Male", rdaAdultMaleOlder},
		{"senior male lowercase", 55, "male", rdaAdultMaleOlder},
		{"senior female", 55, "Female", rdaAdultFemaleOlder},
		{"senior boundary", 51, "Female", rdaAdultFemaleOlder},
		{"senior unrecognized gender", 60, "woman", rdaAdultFemaleOlder},
		{"teen female", 16, "Female", rdaTeenFemale},
		{"teen male", 16, "Male", rdaTeenMale},
		{"teen lower boundary", 14, "Female", rdaTeenFemale},
		{"teen upper boundary", 18, "Male", rdaTeenMale},
		{"nineteen is adult", 19, "Male", rdaAdultMale},
		// No child bucket exists; under-14 takes the adult 19-50 values.
		{"child falls through to adult", 10, "Male", rdaAdultMale},
		{"empty gender defaults female", 30, "", rdaAdultFemale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectRdaValues(tt.age, tt.gender); got != tt.want {
				t.Errorf("SelectRdaValues(%d, %q) = %+v, want %+v", tt.age, tt.gender, got, tt.want)
			}
		})
	}
}

func TestNutrientStatusBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		intake     float64
		rda        float64
		percentage int
		status     string
	}{
		{"exactly 90 percent is adequate", 22.5, 25, 90, StatusAdequate},
		{"just under 90 percent is shortage", 22.25, 25, 89, StatusShortage},
		{"exactly 100 percent stays adequate", 50, 50, 100, StatusAdequate},
		{"over 100 percent is surplus", 50.5, 50, 101, StatusSurplus},
		{"deep shortage", 10, 50, 20, StatusShortage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nutrientStatus("Protein", "g", tt.intake, tt.rda)
			if got.Percentage != tt.percentage {
				t.Errorf("percentage = %d, want %d", got.Percentage, tt.percentage)
			}
			if got.Status != tt.status {
				t.Errorf("status = %q, want %q", got.Status, tt.status)
			}
		})
	}
}

func TestNutrientStatusGapFields(t *testing.T) {
	got := nutrientStatus("Protein", "g", 30, 50)
	if got.Gap != -20 {
		t.Errorf("gap = %v, want -20", got.Gap)
	}
	if got.GapPercentage != -40 {
		t.Errorf("gap percentage = %d, want -40", got.GapPercentage)
	}
}

func TestGetNutrientGapsAbsentInputs(t *testing.T) {
	onboarded := &models.User{Age: 30, Gender: "Female"}

	t.Run("no profile", func(t *testing.T) {
		meals := &fakeMealSource{meals: map[string][]models.MealLog{
			"2025-03-01": {{Calories: 500}},
		}}
		e := newTestEngine(meals, &fakeProfileSource{user: nil})
		gaps, err := e.GetNutrientGaps(context.Background(), 1, "2025-03-01")
		if err != nil || gaps != nil {
			t.Fatalf("want (nil, nil), got (%+v, %v)", gaps, err)
		}
	})

	t.Run("no meals", func(t *testing.T) {
		e := newTestEngine(&fakeMealSource{}, &fakeProfileSource{user: onboarded})
		gaps, err := e.GetNutrientGaps(context.Background(), 1, "2025-03-01")
		if err != nil || gaps != nil {
			t.Fatalf("want (nil, nil), got (%+v, %v)", gaps, err)
		}
	})

	t.Run("profile error propagates", func(t *testing.T) {
		boom := errors.New("db down")
		e := newTestEngine(&fakeMealSource{}, &fakeProfileSource{err: boom})
		if _, err := e.GetNutrientGaps(context.Background(), 1, "2025-03-01"); !errors.Is(err, boom) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestGetNutrientGapsProteinShortage(t *testing.T) {
	meals := &fakeMealSource{meals: map[string][]models.MealLog{
		"2025-03-01": {{FoodName: "Curd", Protein: 20, Calories: 220, Carbs: 30, Fat: 5, Fiber: 2, Iron: 1, Calcium: 250, VitaminD: 0.5}},
	}}
	profile := &fakeProfileSource{user: &models.User{Age: 30, Gender: "Female"}}
	e := newTestEngine(meals, profile)

	gaps, err := e.GetNutrientGaps(context.Background(), 1, "2025-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gaps == nil {
		t.Fatal("expected a report")
	}
	if gaps.Demographics.Age != 30 || gaps.Demographics.Gender != "Female" {
		t.Errorf("demographics = %+v", gaps.Demographics)
	}

	// 20g against the adult-female 46g target.
	p := gaps.Analysis.Protein
	if p.Rda != 46 {
		t.Fatalf("protein RDA = %v, want 46", p.Rda)
	}
	if p.Percentage != 43 {
		t.Errorf("protein percentage = %d, want 43", p.Percentage)
	}
	if p.Status != StatusShortage {
		t.Errorf("protein status = %q, want shortage", p.Status)
	}
	if p.Gap != -26 {
		t.Errorf("protein gap = %v, want -26", p.Gap)
	}

	found := false
	for _, name := range gaps.Summary.ShortageNutrients {
		if name == "Protein" {
			found = true
		}
	}
	if !found {
		t.Errorf("shortage list %v does not include Protein", gaps.Summary.ShortageNutrients)
	}
}

func TestGetNutrientGapsOverallAdequacy(t *testing.T) {
	// Adult male targets: 2500 kcal, 56g protein, 275g carbs, 83g fat,
	// 38g fiber, 8mg iron, 1000mg calcium, 15µg vitamin D. Fiber and
	// vitamin D fall short; the other six meet the bar.
	meals := &fakeMealSource{meals: map[string][]models.MealLog{
		"2025-03-01": {{Calories: 2500, Protein: 56, Carbs: 275, Fat: 83, Fiber: 20, Iron: 8, Calcium: 1000, VitaminD: 5}},
	}}
	profile := &fakeProfileSource{user: &models.User{Age: 30, Gender: "Male"}}
	e := newTestEngine(meals, profile)

	gaps, err := e.GetNutrientGaps(context.Background(), 1, "2025-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gaps == nil {
		t.Fatal("expected a report")
	}

	if got := gaps.Summary.OverallAdequacy; got != 75 {
		t.Errorf("overall adequacy = %d, want 75", got)
	}
	if n := len(gaps.Summary.AdequateNutrients); n != 6 {
		t.Errorf("adequate count = %d (%v), want 6", n, gaps.Summary.AdequateNutrients)
	}
	wantShort := []string{"Fiber", "Vitamin D"}
	if len(gaps.Summary.ShortageNutrients) != len(wantShort) {
		t.Fatalf("shortage list = %v, want %v", gaps.Summary.ShortageNutrients, wantShort)
	}
	for i, name := range wantShort {
		if gaps.Summary.ShortageNutrients[i] != name {
			t.Errorf("shortage[%d] = %q, want %q", i, gaps.Summary.ShortageNutrients[i], name)
		}
	}
}

func TestGetNutrientGapsSurplusCountsAsMet(t *testing.T) {
	meals := &fakeMealSource{meals: map[string][]models.MealLog{
		"2025-03-01": {{Calories: 3000, Protein: 70, Carbs: 300, Fat: 90, Fiber: 40, Iron: 10, Calcium: 1200, VitaminD: 20}},
	}}
	profile := &fakeProfileSource{user: &models.User{Age: 30, Gender: "Male"}}
	e := newTestEngine(meals, profile)

	gaps, err := e.GetNutrientGaps(context.Background(), 1, "2025-03-01")
	if err != nil || gaps == nil {
		t.Fatalf("unexpected result (%+v, %v)", gaps, err)
	}
	if gaps.Summary.OverallAdequacy != 100 {
		t.Errorf("overall adequacy = %d, want 100", gaps.Summary.OverallAdequacy)
	}
	if len(gaps.Summary.SurplusNutrients) == 0 {
		t.Error("expected surplus nutrients")
	}
	if len(gaps.Summary.ShortageNutrients) != 0 {
		t.Errorf("unexpected shortages: %v", gaps.Summary.ShortageNutrients)
	}
}

func TestGetWeeklyAverageIntake(t *testing.T) {
	// now is pinned to 2025-03-10; the window is 03-04 through 03-10.
	// Only three days have meals, so sums divide by 3.
	meals := &fakeMealSource{meals: map[string][]models.MealLog{
		"2025-03-05": {
			{Calories: 500, Protein: 10},
			{Calories: 250, Protein: 5.5},
		},
		"2025-03-07": {{Calories: 600, Protein: 20.2}},
		"2025-03-10": {{Calories: 900, Protein: 30}},
	}}
	e := newTestEngine(meals, &fakeProfileSource{})

	avg, err := e.GetWeeklyAverageIntake(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg == nil {
		t.Fatal("expected an average")
	}
	if avg.Date != "2025-03-05 to 2025-03-10" {
		t.Errorf("date label = %q, want \"2025-03-05 to 2025-03-10\"", avg.Date)
	}
	if avg.MealCount != 4 {
		t.Errorf("meal count = %d, want 4 (summed, not averaged)", avg.MealCount)
	}
	if avg.Calories != 750 {
		t.Errorf("calories = %v, want 750", avg.Calories)
	}
	if avg.Protein != 21.9 {
		t.Errorf("protein = %v, want 21.9", avg.Protein)
	}
}

func TestGetWeeklyAverageIntakeEmptyWindow(t *testing.T) {
	e := newTestEngine(&fakeMealSource{}, &fakeProfileSource{})

	avg, err := e.GetWeeklyAverageIntake(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg != nil {
		t.Fatalf("expected nil average for empty week, got %+v", avg)
	}
}

func TestGetWeeklyAverageIntakeSkipsFailedDays(t *testing.T) {
	meals := &fakeMealSource{
		meals: map[string][]models.MealLog{
			"2025-03-08": {{Calories: 999, Protein: 99}},
			"2025-03-09": {{Calories: 400, Protein: 12}},
		},
		errFor: map[string]error{"2025-03-08": errors.New("db down")},
	}
	e := newTestEngine(meals, &fakeProfileSource{})

	avg, err := e.GetWeeklyAverageIntake(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg == nil {
		t.Fatal("expected an average from the surviving day")
	}
	if avg.Date != "2025-03-09 to 2025-03-09" {
		t.Errorf("date label = %q", avg.Date)
	}
	if avg.Calories != 400 {
		t.Errorf("calories = %v, want 400 (failed day must not contribute)", avg.Calories)
	}
}

func TestFormatNutrientStatus(t *testing.T) {
	tests := []struct {
		name   string
		status NutrientStatus
		want   string
	}{
		{
			"adequate",
			NutrientStatus{Name: "Calcium", Unit: "mg", Intake: 1000, Rda: 1000, Percentage: 100, Status: StatusAdequate},
			"Calcium: 1000.0mg (100% of 1000.0mg RDA) ✓",
		},
		{
			"shortage",
			NutrientStatus{Name: "Protein", Unit: "g", Intake: 20, Rda: 46, Percentage: 43, Gap: -26, Status: StatusShortage},
			"Protein: 20.0g (43% of RDA) - SHORT 26.0g",
		},
		{
			"surplus",
			NutrientStatus{Name: "Iron", Unit: "mg", Intake: 12, Rda: 8, Percentage: 150, Gap: 4, Status: StatusSurplus},
			"Iron: 12.0mg (150% of RDA) - OVER +4.0mg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNutrientStatus(tt.status); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExplainRdaSelection(t *testing.T) {
	tests := []struct {
		age    int
		gender string
		want   string
	}{
		{10, "Male", "Child (<14): Standard child RDA not defined in this engine"},
		{16, "Female", "Teenager (16y, Female): Teen RDA values"},
		{30, "Male", "Adult (30y, Male): Adult (19-50) RDA values"},
		{55, "Female", "Senior (55y, Female): Adult (51+) RDA values"},
	}
	for _, tt := range tests {
		if got := ExplainRdaSelection(tt.age, tt.gender); got != tt.want {
			t.Errorf("ExplainRdaSelection(%d, %q) = %q, want %q", tt.age, tt.gender, got, tt.want)
		}
	}
}
