package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"loaf-backend/models"
	"loaf-backend/utils"
)

// The nutrient-gap engine: aggregates a day's logged meals, picks the RDA
// bucket matching the user's demographics, and classifies each nutrient as
// adequate, shortage or surplus. Pure calculation on top of two injected
// read-only sources; no recommendations, no persistence of its own.

// MealSource is the slice of the meal ledger the engine reads.
type MealSource interface {
	MealsForDate(ctx context.Context, userID uint, date string) ([]models.MealLog, error)
}

// ProfileSource yields the demographic record, or nil before onboarding
// completes.
type ProfileSource interface {
	Profile(ctx context.Context, userID uint) (*models.User, error)
}

// ---------- RDA table ----------

// Daily targets per demographic bucket. Source: NIH/CDC dietary guidelines.
type RdaValues struct {
	Calories float64 `json:"calories"`  // kcal
	Protein  float64 `json:"protein"`   // g
	Carbs    float64 `json:"carbs"`     // g
	Fat      float64 `json:"fat"`       // g
	Fiber    float64 `json:"fiber"`     // g
	Iron     float64 `json:"iron"`      // mg
	Calcium  float64 `json:"calcium"`   // mg
	VitaminD float64 `json:"vitamin_d"` // µg
}

var (
	// Adult Female (19-50 years); iron is the pre-menopausal value.
	rdaAdultFemale = RdaValues{Calories: 2000, Protein: 46, Carbs: 225, Fat: 65, Fiber: 25, Iron: 18, Calcium: 1000, VitaminD: 15}
	// Adult Male (19-50 years)
	rdaAdultMale = RdaValues{Calories: 2500, Protein: 56, Carbs: 275, Fat: 83, Fiber: 38, Iron: 8, Calcium: 1000, VitaminD: 15}
	// Adult Female 51+
	rdaAdultFemaleOlder = RdaValues{Calories: 1800, Protein: 46, Carbs: 225, Fat: 60, Fiber: 21, Iron: 8, Calcium: 1200, VitaminD: 15}
	// Adult Male 51+
	rdaAdultMaleOlder = RdaValues{Calories: 2200, Protein: 56, Carbs: 275, Fat: 73, Fiber: 30, Iron: 8, Calcium: 1000, VitaminD: 15}
	// Teenage Female (14-18)
	rdaTeenFemale = RdaValues{Calories: 2000, Protein: 46, Carbs: 275, Fat: 65, Fiber: 26, Iron: 15, Calcium: 1300, VitaminD: 15}
	// Teenage Male (14-18)
	rdaTeenMale = RdaValues{Calories: 2800, Protein: 59, Carbs: 385, Fat: 93, Fiber: 38, Iron: 11, Calcium: 1300, VitaminD: 15}
)

// SelectRdaValues maps demographics to a bucket. Total: every (age, gender)
// yields a bucket. Ages under 14 have no dedicated bucket and fall through
// to the adult 19-50 values; that gap is kept on purpose, see DESIGN.md.
func SelectRdaValues(age int, gender string) RdaValues {
	isAge51Plus := age >= 51
	isMale := genderIsMale(gender)

	if isAge51Plus && isMale {
		return rdaAdultMaleOlder
	}
	if isAge51Plus {
		return rdaAdultFemaleOlder
	}
	if age >= 14 && age < 19 {
		if isMale {
			return rdaTeenMale
		}
		return rdaTeenFemale
	}
	// Default adult (19-50)
	if isMale {
		return rdaAdultMale
	}
	return rdaAdultFemale
}

// genderIsMale classifies by exact value, not substring, so "Female" never
// lands in the male branch. Unrecognized values take the female targets.
func genderIsMale(gender string) bool {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "m", "man", "boy":
		return true
	}
	return false
}

// ---------- derived types ----------

// DailyIntake is one day's summed nutrients. For weekly averages, Date is a
// "start to end" label instead of a single day.
type DailyIntake struct {
	Date      string  `json:"date"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	Fiber     float64 `json:"fiber"`
	Iron      float64 `json:"iron"`
	Calcium   float64 `json:"calcium"`
	VitaminD  float64 `json:"vitamin_d"`
	MealCount int     `json:"meal_count"`
}

const (
	StatusAdequate = "adequate" // >= 90% of RDA
	StatusShortage = "shortage" // < 90% of RDA
	StatusSurplus  = "surplus"  // > 100% of RDA
)

// NutrientStatus is one nutrient's intake measured against its RDA.
type NutrientStatus struct {
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	Intake        float64 `json:"intake"`
	Rda           float64 `json:"rda"`
	Percentage    int     `json:"percentage"`     // intake as % of RDA
	Gap           float64 `json:"gap"`            // negative = deficiency
	GapPercentage int     `json:"gap_percentage"` // gap as % of RDA
	Status        string  `json:"status"`
}

type Demographics struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// GapAnalysis holds one status per tracked nutrient.
type GapAnalysis struct {
	Calories NutrientStatus `json:"calories"`
	Protein  NutrientStatus `json:"protein"`
	Carbs    NutrientStatus `json:"carbs"`
	Fat      NutrientStatus `json:"fat"`
	Fiber    NutrientStatus `json:"fiber"`
	Iron     NutrientStatus `json:"iron"`
	Calcium  NutrientStatus `json:"calcium"`
	VitaminD NutrientStatus `json:"vitamin_d"`
}

type GapSummary struct {
	AdequateNutrients []string `json:"adequate_nutrients"`
	ShortageNutrients []string `json:"shortage_nutrients"`
	SurplusNutrients  []string `json:"surplus_nutrients"`
	OverallAdequacy   int      `json:"overall_adequacy"` // % of nutrients meeting RDA
}

// NutrientGaps is the engine's top-level report for one date.
type NutrientGaps struct {
	Date         string       `json:"date"`
	Demographics Demographics `json:"demographics"`
	Intake       DailyIntake  `json:"intake"`
	Analysis     GapAnalysis  `json:"analysis"`
	Summary      GapSummary   `json:"summary"`
}

// ---------- engine ----------

type NutritionEngine struct {
	meals   MealSource
	profile ProfileSource
	now     func() time.Time
}

func NewNutritionEngine(meals MealSource, profile ProfileSource) *NutritionEngine {
	return &NutritionEngine{meals: meals, profile: profile, now: time.Now}
}

// GetDailyIntake sums all meals logged on date. Returns (nil, nil) when
// nothing was logged; callers must treat that as "no data", never as an
// all-zero day.
func (e *NutritionEngine) GetDailyIntake(ctx context.Context, userID uint, date string) (*DailyIntake, error) {
	meals, err := e.meals.MealsForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}

	intake := &DailyIntake{Date: date, MealCount: len(meals)}
	for _, m := range meals {
		intake.Calories += m.Calories
		intake.Protein += m.Protein
		intake.Carbs += m.Carbs
		intake.Fat += m.Fat
		intake.Fiber += m.Fiber
		intake.Iron += m.Iron
		intake.Calcium += m.Calcium
		intake.VitaminD += m.VitaminD
	}

	// Round once, after summation
	intake.Calories = math.Round(intake.Calories)
	intake.Protein = round1(intake.Protein)
	intake.Carbs = round1(intake.Carbs)
	intake.Fat = round1(intake.Fat)
	intake.Fiber = round1(intake.Fiber)
	intake.Iron = round1(intake.Iron)
	intake.Calcium = math.Round(intake.Calcium)
	intake.VitaminD = round1(intake.VitaminD)

	return intake, nil
}

// GetNutrientGaps builds the full gap report for one date. Returns
// (nil, nil) when there is no profile or no meals for the date: that is
// "insufficient data to analyze", not an error.
func (e *NutritionEngine) GetNutrientGaps(ctx context.Context, userID uint, date string) (*NutrientGaps, error) {
	profile, err := e.profile.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil // demographics required for RDA selection
	}

	intake, err := e.GetDailyIntake(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if intake == nil {
		return nil, nil // no meals logged
	}

	rda := SelectRdaValues(profile.Age, profile.Gender)

	analysis := GapAnalysis{
		Calories: nutrientStatus("Calories", "kcal", intake.Calories, rda.Calories),
		Protein:  nutrientStatus("Protein", "g", intake.Protein, rda.Protein),
		Carbs:    nutrientStatus("Carbohydrates", "g", intake.Carbs, rda.Carbs),
		Fat:      nutrientStatus("Fat", "g", intake.Fat, rda.Fat),
		Fiber:    nutrientStatus("Fiber", "g", intake.Fiber, rda.Fiber),
		Iron:     nutrientStatus("Iron", "mg", intake.Iron, rda.Iron),
		Calcium:  nutrientStatus("Calcium", "mg", intake.Calcium, rda.Calcium),
		VitaminD: nutrientStatus("Vitamin D", "µg", intake.VitaminD, rda.VitaminD),
	}

	statuses := []NutrientStatus{
		analysis.Calories, analysis.Protein, analysis.Carbs, analysis.Fat,
		analysis.Fiber, analysis.Iron, analysis.Calcium, analysis.VitaminD,
	}

	var sum GapSummary
	for _, n := range statuses {
		switch n.Status {
		case StatusAdequate:
			sum.AdequateNutrients = append(sum.AdequateNutrients, n.Name)
		case StatusShortage:
			sum.ShortageNutrients = append(sum.ShortageNutrients, n.Name)
		case StatusSurplus:
			sum.SurplusNutrients = append(sum.SurplusNutrients, n.Name)
		}
	}
	// Surplus still counts as "met the bar"; only shortages count against.
	metCount := len(sum.AdequateNutrients) + len(sum.SurplusNutrients)
	sum.OverallAdequacy = int(math.Round(float64(metCount) / float64(len(statuses)) * 100))

	return &NutrientGaps{
		Date:         date,
		Demographics: Demographics{Age: profile.Age, Gender: profile.Gender},
		Intake:       *intake,
		Analysis:     analysis,
		Summary:      sum,
	}, nil
}

func nutrientStatus(name, unit string, intake, rda float64) NutrientStatus {
	percentage := int(math.Round(intake / rda * 100))
	gap := intake - rda
	gapPercentage := int(math.Round(gap / rda * 100))

	status := StatusShortage
	if percentage >= 90 {
		status = StatusAdequate
	}
	if percentage > 100 {
		status = StatusSurplus
	}

	return NutrientStatus{
		Name:          name,
		Unit:          unit,
		Intake:        round1(intake),
		Rda:           rda,
		Percentage:    percentage,
		Gap:           round1(gap),
		GapPercentage: gapPercentage,
		Status:        status,
	}
}

// GetWeeklyAverageIntake averages daily intake over the last 7 days,
// counting only days that actually have meals. Returns (nil, nil) when the
// whole window is empty. MealCount is the sum across included days, not an
// average.
func (e *NutritionEngine) GetWeeklyAverageIntake(ctx context.Context, userID uint) (*DailyIntake, error) {
	return e.weeklyAverageFrom(ctx, userID, e.now())
}

func (e *NutritionEngine) weeklyAverageFrom(ctx context.Context, userID uint, today time.Time) (*DailyIntake, error) {
	var intakes []*DailyIntake
	for i := 6; i >= 0; i-- {
		date := utils.FormatDate(today.AddDate(0, 0, -i))
		intake, err := e.GetDailyIntake(ctx, userID, date)
		if err != nil {
			// A failed day is treated like an empty day so one bad fetch
			// cannot sink the whole window.
			continue
		}
		if intake != nil {
			intakes = append(intakes, intake)
		}
	}
	if len(intakes) == 0 {
		return nil, nil
	}

	n := float64(len(intakes))
	avg := &DailyIntake{
		Date: fmt.Sprintf("%s to %s", intakes[0].Date, intakes[len(intakes)-1].Date),
	}
	for _, in := range intakes {
		avg.Calories += in.Calories
		avg.Protein += in.Protein
		avg.Carbs += in.Carbs
		avg.Fat += in.Fat
		avg.Fiber += in.Fiber
		avg.Iron += in.Iron
		avg.Calcium += in.Calcium
		avg.VitaminD += in.VitaminD
		avg.MealCount += in.MealCount
	}
	avg.Calories = math.Round(avg.Calories / n)
	avg.Protein = round1(avg.Protein / n)
	avg.Carbs = round1(avg.Carbs / n)
	avg.Fat = round1(avg.Fat / n)
	avg.Fiber = round1(avg.Fiber / n)
	avg.Iron = round1(avg.Iron / n)
	avg.Calcium = math.Round(avg.Calcium / n)
	avg.VitaminD = round1(avg.VitaminD / n)

	return avg, nil
}

// ---------- display helpers ----------

// FormatNutrientStatus renders one nutrient line for logs and debug output.
func FormatNutrientStatus(s NutrientStatus) string {
	switch s.Status {
	case StatusAdequate:
		return fmt.Sprintf("%s: %.1f%s (%d%% of %.1f%s RDA) ✓", s.Name, s.Intake, s.Unit, s.Percentage, s.Rda, s.Unit)
	case StatusShortage:
		return fmt.Sprintf("%s: %.1f%s (%d%% of RDA) - SHORT %.1f%s", s.Name, s.Intake, s.Unit, s.Percentage, math.Abs(s.Gap), s.Unit)
	default:
		return fmt.Sprintf("%s: %.1f%s (%d%% of RDA) - OVER +%.1f%s", s.Name, s.Intake, s.Unit, s.Percentage, s.Gap, s.Unit)
	}
}

// ExplainRdaSelection describes which bucket rule applies. Uses the same
// gender test as SelectRdaValues so the explanation can never contradict
// the classification.
func ExplainRdaSelection(age int, gender string) string {
	genderLabel := "Female"
	if genderIsMale(gender) {
		genderLabel = "Male"
	}

	switch {
	case age < 14:
		return "Child (<14): Standard child RDA not defined in this engine"
	case age < 19:
		return fmt.Sprintf("Teenager (%dy, %s): Teen RDA values", age, genderLabel)
	case age < 51:
		return fmt.Sprintf("Adult (%dy, %s): Adult (19-50) RDA values", age, genderLabel)
	default:
		return fmt.Sprintf("Senior (%dy, %s): Adult (51+) RDA values", age, genderLabel)
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
