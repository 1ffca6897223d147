package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"loaf-backend/utils"
)

// SuggestionService asks an LLM for small, practical food additions, with
// the engine's gap report as context. The model only ever sees a text
// summary; all numbers come from the engine.
type SuggestionService struct {
	client  *http.Client
	baseURL string
	token   string
	model   string

	engine  *NutritionEngine
	meals   MealSource
	profile ProfileSource
	foods   *FoodService
}

func NewSuggestionService(engine *NutritionEngine, meals MealSource, profile ProfileSource, foods *FoodService) *SuggestionService {
	return &SuggestionService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://openrouter.ai/api/v1",
		token:   os.Getenv("OPENROUTER_API_KEY"),
		model:   "meta-llama/llama-3.1-8b-instruct",
		engine:  engine,
		meals:   meals,
		profile: profile,
		foods:   foods,
	}
}

// SuggestionContext is what gets summarized into the prompt.
type SuggestionContext struct {
	Goals        []string `json:"goals"`
	TodayMeals   []string `json:"today_meals"`
	GapNutrients []string `json:"gap_nutrients"`
	AllowedFoods []string `json:"allowed_foods"`
}

// BuildContext gathers goals, today's meals and the engine's shortage list.
// Missing data is fine: an empty context still produces generic advice.
func (s *SuggestionService) BuildContext(ctx context.Context, userID uint) (*SuggestionContext, error) {
	out := &SuggestionContext{
		Goals:        []string{},
		TodayMeals:   []string{},
		GapNutrients: []string{},
	}
	today := utils.TodayDate()

	if profile, err := s.profile.Profile(ctx, userID); err != nil {
		return nil, err
	} else if profile != nil {
		out.Goals = splitGoals(profile.ActiveGoals)
	}

	meals, err := s.meals.MealsForDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	for _, m := range meals {
		out.TodayMeals = append(out.TodayMeals, m.FoodName)
	}

	gaps, err := s.engine.GetNutrientGaps(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if gaps != nil {
		out.GapNutrients = gaps.Summary.ShortageNutrients
	}

	out.AllowedFoods = s.foods.Names(50) // cap for the prompt
	return out, nil
}

func (s *SuggestionService) GetSuggestions(ctx context.Context, userID uint) ([]string, error) {
	if s.token == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}

	sctx, err := s.BuildContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := buildSuggestionPrompt(sctx)

	body := map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  256,
		"temperature": 0.2,
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openrouter response error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Surface the exact upstream error body; it is usually JSON with
		// {"error": {"message": "..."}} but sometimes plain text.
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("openrouter api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("openrouter api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &out); err != nil {
		preview := string(respBytes)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return nil, fmt.Errorf("decode openrouter response error: %v | body: %s", err, preview)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("empty suggestions from model")
	}

	return splitBullets(out.Choices[0].Message.Content), nil
}

func buildSuggestionPrompt(sctx *SuggestionContext) string {
	var sb bytes.Buffer

	sb.WriteString("Today's meals:\n")
	if len(sctx.TodayMeals) == 0 {
		sb.WriteString("- (no meals logged yet)\n")
	} else {
		for _, name := range sctx.TodayMeals {
			sb.WriteString("- " + name + "\n")
		}
	}

	if len(sctx.GapNutrients) > 0 {
		sb.WriteString("\nNutrients currently short of the daily target: ")
		sb.WriteString(strings.Join(sctx.GapNutrients, ", "))
		sb.WriteString("\n")
	}
	if len(sctx.Goals) > 0 {
		sb.WriteString("Active goals: " + strings.Join(sctx.Goals, ", ") + "\n")
	}
	if len(sctx.AllowedFoods) > 0 {
		sb.WriteString("Pick only from these foods: " + strings.Join(sctx.AllowedFoods, ", ") + "\n")
	}

	sb.WriteString("\nSuggest 3-5 small, practical additions (a spoonful, one item) that close the gaps without replacing regular meals. Return plain bullet points.")
	return sb.String()
}

// splitBullets turns LLM output into a clean list, stripping common
// bullet prefixes.
func splitBullets(text string) []string {
	var recs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "-•* \t")
		if line != "" {
			recs = append(recs, line)
		}
	}
	return recs
}
