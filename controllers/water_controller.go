package controllers

import (
	"context"
	"net/http"
	"strconv"

	"loaf-backend/models"
	"loaf-backend/services"
	"loaf-backend/utils"

	"github.com/gin-gonic/gin"
)

type waterStore interface {
	LogWater(ctx context.Context, userID uint, date string, amountML float64) (*models.WaterLog, error)
	WaterForDate(ctx context.Context, userID uint, date string) ([]models.WaterLog, error)
	TotalForDate(ctx context.Context, userID uint, date string) (float64, error)
	GetLog(ctx context.Context, userID, logID uint) (*models.WaterLog, error)
	DeleteLog(ctx context.Context, userID, logID uint) error
	GetPreferences(ctx context.Context, userID uint) (*models.WaterPreference, error)
	UpsertPreferences(ctx context.Context, userID uint, targetML float64, intervalMin int, remindersOn bool) (*models.WaterPreference, error)
}

type summaryRefresher interface {
	RefreshDailySummary(ctx context.Context, userID uint, date string) (*models.DailySummary, error)
}

type summaryBroadcaster interface {
	BroadcastSummary(userID uint, payload any)
}

type WaterController struct {
	Water   waterStore
	Summary summaryRefresher
	RT      summaryBroadcaster
	Push    *services.PushService
}

func NewWaterController(water waterStore, summary summaryRefresher, rt summaryBroadcaster, push *services.PushService) *WaterController {
	return &WaterController{Water: water, Summary: summary, RT: rt, Push: push}
}

func (wc *WaterController) LogWater(c *gin.Context) {
	uid := c.GetUint("userID")

	var body struct {
		Date     string  `json:"date"`
		AmountML float64 `json:"amount_ml" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Date == "" {
		body.Date = utils.TodayDate()
	}

	log, err := wc.Water.LogWater(c.Request.Context(), uid, body.Date, body.AmountML)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	wc.refresh(c, uid, body.Date)
	c.JSON(http.StatusCreated, log)
}

func (wc *WaterController) ListWater(c *gin.Context) {
	uid := c.GetUint("userID")
	date := c.DefaultQuery("date", utils.TodayDate())

	logs, err := wc.Water.WaterForDate(c.Request.Context(), uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := wc.Water.TotalForDate(c.Request.Context(), uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"logs":     logs,
		"total_ml": total,
	})
}

func (wc *WaterController) DeleteWaterLog(c *gin.Context) {
	uid := c.GetUint("userID")
	logID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	// need the date before the row goes away
	log, err := wc.Water.GetLog(c.Request.Context(), uid, uint(logID))
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "water log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := wc.Water.DeleteLog(c.Request.Context(), uid, uint(logID)); err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "water log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	wc.refresh(c, uid, log.Date)
	c.Status(http.StatusNoContent)
}

func (wc *WaterController) GetPreferences(c *gin.Context) {
	uid := c.GetUint("userID")

	pref, err := wc.Water.GetPreferences(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pref)
}

// UpdatePreferences saves the reminder settings and immediately re-checks
// whether a reminder is due under the new target.
func (wc *WaterController) UpdatePreferences(c *gin.Context) {
	uid := c.GetUint("userID")

	var body struct {
		DailyTargetML    float64 `json:"daily_target_ml" binding:"required,gt=0"`
		ReminderInterval int     `json:"reminder_interval" binding:"required,gt=0"`
		RemindersOn      bool    `json:"reminders_on"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pref, err := wc.Water.UpsertPreferences(c.Request.Context(), uid, body.DailyTargetML, body.ReminderInterval, body.RemindersOn)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = wc.Push.SendWaterReminder(c.Request.Context(), uid)

	c.JSON(http.StatusOK, pref)
}

// refresh recomputes the day's summary and pushes it to connected clients.
// Best effort: a failed refresh never fails the write that triggered it.
// Deletes go through here too, otherwise the stored WaterML keeps counting
// the removed log.
func (wc *WaterController) refresh(c *gin.Context, userID uint, date string) {
	sum, err := wc.Summary.RefreshDailySummary(c.Request.Context(), userID, date)
	if err != nil {
		return
	}
	wc.RT.BroadcastSummary(userID, sum)
}
