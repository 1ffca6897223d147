package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"loaf-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type fakeWaterStore struct {
	logs    map[uint]*models.WaterLog
	deleted []uint
}

func (f *fakeWaterStore) LogWater(_ context.Context, userID uint, date string, amountML float64) (*models.WaterLog, error) {
	log := &models.WaterLog{UserID: userID, Date: date, AmountML: amountML}
	return log, nil
}

func (f *fakeWaterStore) WaterForDate(context.Context, uint, string) ([]models.WaterLog, error) {
	return nil, nil
}

func (f *fakeWaterStore) TotalForDate(context.Context, uint, string) (float64, error) {
	return 0, nil
}

func (f *fakeWaterStore) GetLog(_ context.Context, _ uint, logID uint) (*models.WaterLog, error) {
	log, ok := f.logs[logID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return log, nil
}

func (f *fakeWaterStore) DeleteLog(_ context.Context, _ uint, logID uint) error {
	if _, ok := f.logs[logID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.logs, logID)
	f.deleted = append(f.deleted, logID)
	return nil
}

func (f *fakeWaterStore) GetPreferences(context.Context, uint) (*models.WaterPreference, error) {
	return &models.WaterPreference{}, nil
}

func (f *fakeWaterStore) UpsertPreferences(context.Context, uint, float64, int, bool) (*models.WaterPreference, error) {
	return &models.WaterPreference{}, nil
}

type fakeSummaryRefresher struct {
	dates []string
}

func (f *fakeSummaryRefresher) RefreshDailySummary(_ context.Context, userID uint, date string) (*models.DailySummary, error) {
	f.dates = append(f.dates, date)
	return &models.DailySummary{UserID: userID, Date: date}, nil
}

type fakeBroadcaster struct {
	sent int
}

func (f *fakeBroadcaster) BroadcastSummary(uint, any) { f.sent++ }

func waterTestRouter(store *fakeWaterStore, sum *fakeSummaryRefresher, rt *fakeBroadcaster) *gin.Engine {
	gin.SetMode(gin.TestMode)
	wc := NewWaterController(store, sum, rt, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", uint(1)) })
	r.POST("/water", wc.LogWater)
	r.DELETE("/water/:id", wc.DeleteWaterLog)
	return r
}

func TestDeleteWaterLogRefreshesSummary(t *testing.T) {
	store := &fakeWaterStore{logs: map[uint]*models.WaterLog{
		7: {UserID: 1, Date: "2025-03-01", AmountML: 250},
	}}
	sum := &fakeSummaryRefresher{}
	rt := &fakeBroadcaster{}
	r := waterTestRouter(store, sum, rt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/water/7", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(store.deleted) != 1 || store.deleted[0] != 7 {
		t.Fatalf("deleted = %v, want [7]", store.deleted)
	}
	// The rollup must be recomputed for the deleted log's date, or the
	// stored WaterML keeps counting the removed amount.
	if len(sum.dates) != 1 || sum.dates[0] != "2025-03-01" {
		t.Errorf("refreshed dates = %v, want [2025-03-01]", sum.dates)
	}
	if rt.sent != 1 {
		t.Errorf("broadcasts = %d, want 1", rt.sent)
	}
}

func TestDeleteWaterLogNotFound(t *testing.T) {
	store := &fakeWaterStore{logs: map[uint]*models.WaterLog{}}
	sum := &fakeSummaryRefresher{}
	r := waterTestRouter(store, sum, &fakeBroadcaster{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/water/99", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if len(sum.dates) != 0 {
		t.Errorf("refresh ran for a missing log: %v", sum.dates)
	}
}

func TestLogWaterRefreshesSummary(t *testing.T) {
	store := &fakeWaterStore{logs: map[uint]*models.WaterLog{}}
	sum := &fakeSummaryRefresher{}
	rt := &fakeBroadcaster{}
	r := waterTestRouter(store, sum, rt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/water",
		strings.NewReader(`{"date":"2025-03-02","amount_ml":300}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(sum.dates) != 1 || sum.dates[0] != "2025-03-02" {
		t.Errorf("refreshed dates = %v, want [2025-03-02]", sum.dates)
	}
	if rt.sent != 1 {
		t.Errorf("broadcasts = %d, want 1", rt.sent)
	}
}
