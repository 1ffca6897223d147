package controllers

import (
	"net/http"
	"strconv"

	"loaf-backend/services"
	"loaf-backend/utils"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Meals   *services.MealService
	Summary *services.SummaryService
	RT      *services.RealtimeHub
}

func NewMealController(meals *services.MealService, summary *services.SummaryService, rt *services.RealtimeHub) *MealController {
	return &MealController{Meals: meals, Summary: summary, RT: rt}
}

func (mc *MealController) LogMeal(c *gin.Context) {
	uid := c.GetUint("userID")

	var req services.MealLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date == "" {
		req.Date = utils.TodayDate()
	}

	meal, err := mc.Meals.LogMeal(c.Request.Context(), uid, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mc.refresh(c, uid, meal.Date)
	c.JSON(http.StatusCreated, meal)
}

func (mc *MealController) ListMeals(c *gin.Context) {
	uid := c.GetUint("userID")
	date := c.DefaultQuery("date", utils.TodayDate())

	meals, err := mc.Meals.MealsForDate(c.Request.Context(), uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (mc *MealController) ListRecent(c *gin.Context) {
	uid := c.GetUint("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	meals, err := mc.Meals.ListRecentMeals(c.Request.Context(), uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (mc *MealController) UpdateMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	mealID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}

	var req services.MealLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.Meals.UpdateMeal(c.Request.Context(), uid, uint(mealID), req)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mc.refresh(c, uid, meal.Date)
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) DeleteMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	mealID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}

	// need the date before the row goes away
	meal, err := mc.Meals.GetMeal(c.Request.Context(), uid, uint(mealID))
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := mc.Meals.DeleteMeal(c.Request.Context(), uid, uint(mealID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mc.refresh(c, uid, meal.Date)
	c.Status(http.StatusNoContent)
}

// refresh recomputes the day's summary and pushes it to connected clients.
// Best effort: a failed refresh never fails the write that triggered it.
func (mc *MealController) refresh(c *gin.Context, userID uint, date string) {
	sum, err := mc.Summary.RefreshDailySummary(c.Request.Context(), userID, date)
	if err != nil {
		return
	}
	mc.RT.BroadcastSummary(userID, sum)
}
