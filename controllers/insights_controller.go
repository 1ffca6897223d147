// controllers/insights_controller.go
package controllers

import (
	"net/http"

	"loaf-backend/services"
	"loaf-backend/utils"

	"github.com/gin-gonic/gin"
)

type InsightsController struct {
	Engine  *services.NutritionEngine
	Summary *services.SummaryService
}

func NewInsightsController(engine *services.NutritionEngine, summary *services.SummaryService) *InsightsController {
	return &InsightsController{Engine: engine, Summary: summary}
}

// GetDailyIntake returns the day's aggregated nutrients, or a "no data"
// body when nothing was logged. The distinction matters: the app shows an
// explanatory empty state, never a zero-filled chart.
func (ic *InsightsController) GetDailyIntake(c *gin.Context) {
	uid := c.GetUint("userID")
	date := c.DefaultQuery("date", utils.TodayDate())
	if _, err := utils.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	intake, err := ic.Engine.GetDailyIntake(c.Request.Context(), uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if intake == nil {
		c.JSON(http.StatusOK, gin.H{"date": date, "no_data": true, "message": "no meals logged for this date"})
		return
	}
	c.JSON(http.StatusOK, intake)
}

func (ic *InsightsController) GetNutrientGaps(c *gin.Context) {
	uid := c.GetUint("userID")
	date := c.DefaultQuery("date", utils.TodayDate())
	if _, err := utils.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	gaps, err := ic.Engine.GetNutrientGaps(c.Request.Context(), uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if gaps == nil {
		c.JSON(http.StatusOK, gin.H{"date": date, "no_data": true, "message": "complete onboarding and log meals to see the gap analysis"})
		return
	}
	c.JSON(http.StatusOK, gaps)
}

func (ic *InsightsController) GetWeeklyAverage(c *gin.Context) {
	uid := c.GetUint("userID")

	avg, err := ic.Engine.GetWeeklyAverageIntake(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if avg == nil {
		c.JSON(http.StatusOK, gin.H{"no_data": true, "message": "no meals logged in the last 7 days"})
		return
	}
	c.JSON(http.StatusOK, avg)
}

// GetSummaryRange serves the stored meal+water rollups for chart screens.
func (ic *InsightsController) GetSummaryRange(c *gin.Context) {
	uid := c.GetUint("userID")

	from := c.Query("from")
	to := c.Query("to")
	if _, err := utils.ParseDate(from); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	if _, err := utils.ParseDate(to); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if to < from {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	rows, err := ic.Summary.Range(c.Request.Context(), uid, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "days": rows})
}
