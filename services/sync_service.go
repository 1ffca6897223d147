package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"loaf-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncService mirrors a user's local data into the cloud backup store
// (Supabase REST) and back. Push is a bulk upsert keyed on (user, date,
// client id); pull overwrites local rows with whatever the backup holds.
// Last write wins, no conflict resolution.
type SyncService struct {
	db      *gorm.DB
	meals   *MealService
	water   *WaterService
	summary *SummaryService

	client  *http.Client
	baseURL string
	apiKey  string
}

func NewSyncService(db *gorm.DB, meals *MealService, water *WaterService, summary *SummaryService) *SyncService {
	return &SyncService{
		db:      db,
		meals:   meals,
		water:   water,
		summary: summary,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: os.Getenv("SUPABASE_URL"),
		apiKey:  os.Getenv("SUPABASE_SERVICE_KEY"),
	}
}

type SyncResult struct {
	BatchID   string `json:"batch_id"`
	Meals     int    `json:"meals"`
	WaterLogs int    `json:"water_logs"`
	Summaries int    `json:"summaries"`
}

type syncMealRow struct {
	ClientID     string  `json:"client_id"`
	UserID       uint    `json:"user_id"`
	Date         string  `json:"date"`
	FoodID       string  `json:"food_id"`
	FoodName     string  `json:"food_name"`
	PortionLabel string  `json:"portion_label"`
	PortionGrams float64 `json:"portion_grams"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	Iron         float64 `json:"iron"`
	Calcium      float64 `json:"calcium"`
	VitaminD     float64 `json:"vitamin_d"`
}

type syncWaterRow struct {
	ClientID string  `json:"client_id"`
	UserID   uint    `json:"user_id"`
	Date     string  `json:"date"`
	AmountML float64 `json:"amount_ml"`
}

type syncSummaryRow struct {
	UserID   uint    `json:"user_id"`
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Iron     float64 `json:"iron"`
	Calcium  float64 `json:"calcium"`
	VitaminD float64 `json:"vitamin_d"`
	WaterML  float64 `json:"water_ml"`
}

// PushAll bulk-upserts everything in [from, to] to the backup store.
func (s *SyncService) PushAll(ctx context.Context, userID uint, from, to string) (*SyncResult, error) {
	if s.baseURL == "" || s.apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL / SUPABASE_SERVICE_KEY not set")
	}

	res := &SyncResult{BatchID: uuid.NewString()}

	meals, err := s.meals.ListMealsByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	mealRows := make([]syncMealRow, 0, len(meals))
	for _, m := range meals {
		mealRows = append(mealRows, syncMealRow{
			ClientID: fmt.Sprintf("%d", m.ID), UserID: m.UserID, Date: m.Date,
			FoodID: m.FoodID, FoodName: m.FoodName,
			PortionLabel: m.PortionLabel, PortionGrams: m.PortionGrams,
			Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat,
			Fiber: m.Fiber, Iron: m.Iron, Calcium: m.Calcium, VitaminD: m.VitaminD,
		})
	}
	if err := s.upsert(ctx, "meal_logs", mealRows); err != nil {
		return nil, err
	}
	res.Meals = len(mealRows)

	waterLogs, err := s.water.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	waterRows := make([]syncWaterRow, 0, len(waterLogs))
	for _, w := range waterLogs {
		waterRows = append(waterRows, syncWaterRow{
			ClientID: fmt.Sprintf("%d", w.ID), UserID: w.UserID, Date: w.Date, AmountML: w.AmountML,
		})
	}
	if err := s.upsert(ctx, "water_logs", waterRows); err != nil {
		return nil, err
	}
	res.WaterLogs = len(waterRows)

	summaries, err := s.summary.Range(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	summaryRows := make([]syncSummaryRow, 0, len(summaries))
	for _, d := range summaries {
		summaryRows = append(summaryRows, syncSummaryRow{
			UserID: d.UserID, Date: d.Date,
			Calories: d.Calories, Protein: d.Protein, Carbs: d.Carbs, Fat: d.Fat,
			Fiber: d.Fiber, Iron: d.Iron, Calcium: d.Calcium, VitaminD: d.VitaminD,
			WaterML: d.WaterML,
		})
	}
	if err := s.upsert(ctx, "daily_summaries", summaryRows); err != nil {
		return nil, err
	}
	res.Summaries = len(summaryRows)

	return res, nil
}

// PullAll fetches the user's backed-up ledgers and replaces the local rows.
func (s *SyncService) PullAll(ctx context.Context, userID uint) (*SyncResult, error) {
	if s.baseURL == "" || s.apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL / SUPABASE_SERVICE_KEY not set")
	}

	res := &SyncResult{BatchID: uuid.NewString()}

	var mealRows []syncMealRow
	if err := s.fetch(ctx, "meal_logs", userID, &mealRows); err != nil {
		return nil, err
	}
	for _, r := range mealRows {
		row := models.MealLog{
			UserID: userID, Date: r.Date,
			FoodID: r.FoodID, FoodName: r.FoodName,
			PortionLabel: r.PortionLabel, PortionGrams: r.PortionGrams,
			Calories: r.Calories, Protein: r.Protein, Carbs: r.Carbs, Fat: r.Fat,
			Fiber: r.Fiber, Iron: r.Iron, Calcium: r.Calcium, VitaminD: r.VitaminD,
		}
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND date = ? AND food_id = ? AND portion_grams = ?",
				userID, r.Date, r.FoodID, r.PortionGrams).
			Assign(row).
			FirstOrCreate(&row).Error; err != nil {
			return nil, err
		}
	}
	res.Meals = len(mealRows)

	var waterRows []syncWaterRow
	if err := s.fetch(ctx, "water_logs", userID, &waterRows); err != nil {
		return nil, err
	}
	for _, r := range waterRows {
		row := models.WaterLog{UserID: userID, Date: r.Date, AmountML: r.AmountML}
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND date = ? AND amount_ml = ?", userID, r.Date, r.AmountML).
			Assign(row).
			FirstOrCreate(&row).Error; err != nil {
			return nil, err
		}
	}
	res.WaterLogs = len(waterRows)

	return res, nil
}

func (s *SyncService) upsert(ctx context.Context, table string, rows any) error {
	b, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/rest/v1/%s", s.baseURL, table), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("backup upsert %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backup upsert %s failed (%d): %s", table, resp.StatusCode, string(body))
	}
	return nil
}

func (s *SyncService) fetch(ctx context.Context, table string, userID uint, out any) error {
	u := fmt.Sprintf("%s/rest/v1/%s?user_id=eq.%d", s.baseURL, table, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("backup fetch %s: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read backup fetch %s: %w", table, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backup fetch %s failed (%d): %s", table, resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
