package models

// A catalog entry from the bundled food database. Loaded from JSON at
// startup, never persisted; the ledger stores a snapshot of the resolved
// nutrients instead.
type Food struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases,omitempty"`
	Category string   `json:"category"`

	Portions []FoodPortion `json:"portions"`
	Per100g  Nutrition     `json:"nutrition_per_100g"`
}

type FoodPortion struct {
	Label string  `json:"label"` // "1 bowl", "1 cup", …
	Grams float64 `json:"grams"`
}

// Nutrition is the 8-nutrient vector tracked everywhere in the app.
type Nutrition struct {
	Calories float64 `json:"calories"`  // kcal
	Protein  float64 `json:"protein"`   // g
	Carbs    float64 `json:"carbs"`     // g
	Fat      float64 `json:"fat"`       // g
	Fiber    float64 `json:"fiber"`     // g
	Iron     float64 `json:"iron"`      // mg
	Calcium  float64 `json:"calcium"`   // mg
	VitaminD float64 `json:"vitamin_d"` // µg
}
