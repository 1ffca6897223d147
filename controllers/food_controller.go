package controllers

import (
	"net/http"
	"strconv"

	"loaf-backend/services"
	"loaf-backend/utils"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Foods       *services.FoodService
	Custom      *services.CustomFoodService
	Recognition *services.RecognitionService
}

func NewFoodController(foods *services.FoodService, custom *services.CustomFoodService, rec *services.RecognitionService) *FoodController {
	return &FoodController{Foods: foods, Custom: custom, Recognition: rec}
}

// GET /foods/search?q=dal
func (fc *FoodController) SearchFoods(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	c.JSON(http.StatusOK, fc.Foods.Search(q))
}

// POST /foods/custom saves a personal dictionary entry for something the
// catalog is missing. The returned food_id logs like any catalog id.
func (fc *FoodController) CreateCustomFood(c *gin.Context) {
	uid := c.GetUint("userID")

	var input services.CustomFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cf, err := fc.Custom.Save(c.Request.Context(), uid, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"food_id":     services.CustomFoodRef(cf.ID),
		"custom_food": cf,
	})
}

func (fc *FoodController) ListCustomFoods(c *gin.Context) {
	uid := c.GetUint("userID")

	foods, err := fc.Custom.List(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (fc *FoodController) DeleteCustomFood(c *gin.Context) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid custom food id"})
		return
	}

	if err := fc.Custom.Delete(c.Request.Context(), uid, uint(id)); err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "custom food not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /foods/recognize  { "image_base64": "data:…" }
func (fc *FoodController) RecognizeFood(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	// keep an audit copy of the photo; recognition proceeds even if this fails
	photoURL, _ := utils.UploadMealPhoto(req.ImageBase64, c.GetString("email"))

	foods, err := fc.Recognition.RecognizeFood(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photo_url": photoURL,
		"matches":   foods,
	})
}
