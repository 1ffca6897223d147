package routes

import (
	"log"
	"os"

	"loaf-backend/config"
	"loaf-backend/controllers"
	"loaf-backend/middlewares"
	"loaf-backend/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	foodDBPath := os.Getenv("FOOD_DB_PATH")
	if foodDBPath == "" {
		foodDBPath = "data/food_database.json"
	}
	foodSvc, err := services.NewFoodService(foodDBPath)
	if err != nil {
		log.Fatalf("Failed to load food database: %v", err)
	}

	customSvc := services.NewCustomFoodService(config.DB)
	mealSvc := services.NewMealService(config.DB, foodSvc, customSvc)
	waterSvc := services.NewWaterService(config.DB)
	summarySvc := services.NewSummaryService(config.DB, mealSvc, waterSvc)
	profileStore := services.NewProfileStore(config.DB)
	engine := services.NewNutritionEngine(mealSvc, profileStore)
	suggestSvc := services.NewSuggestionService(engine, mealSvc, profileStore, foodSvc)
	syncSvc := services.NewSyncService(config.DB, mealSvc, waterSvc, summarySvc)
	hub := services.NewRealtimeHub()

	pushSvc, err := services.NewPushService(config.DB, waterSvc)
	if err != nil {
		log.Fatalf("Failed to init push service: %v", err)
	}
	recSvc, err := services.NewRecognitionService(foodSvc)
	if err != nil {
		log.Fatalf("Failed to init recognition service: %v", err)
	}

	mealCtl := controllers.NewMealController(mealSvc, summarySvc, hub)
	waterCtl := controllers.NewWaterController(waterSvc, summarySvc, hub, pushSvc)
	insightsCtl := controllers.NewInsightsController(engine, summarySvc)
	foodCtl := controllers.NewFoodController(foodSvc, customSvc, recSvc)
	suggestCtl := controllers.NewSuggestionController(suggestSvc)
	syncCtl := controllers.NewSyncController(syncSvc)
	deviceCtl := controllers.NewDeviceController(pushSvc)
	rtCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Everything below requires a valid token
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		user := api.Group("/user")
		{
			user.GET("/profile", controllers.GetProfile)
			user.PUT("/profile", controllers.UpdateProfile)
			user.POST("/onboarding", controllers.CompleteOnboarding)
		}

		meals := api.Group("/meals")
		{
			meals.POST("", mealCtl.LogMeal)
			meals.GET("", mealCtl.ListMeals)
			meals.GET("/recent", mealCtl.ListRecent)
			meals.PUT("/:id", mealCtl.UpdateMeal)
			meals.DELETE("/:id", mealCtl.DeleteMeal)
		}

		water := api.Group("/water")
		{
			water.POST("", waterCtl.LogWater)
			water.GET("", waterCtl.ListWater)
			water.DELETE("/:id", waterCtl.DeleteWaterLog)
			water.GET("/preferences", waterCtl.GetPreferences)
			water.PUT("/preferences", waterCtl.UpdatePreferences)
		}

		insights := api.Group("/insights")
		{
			insights.GET("/daily", insightsCtl.GetDailyIntake)
			insights.GET("/gaps", insightsCtl.GetNutrientGaps)
			insights.GET("/weekly", insightsCtl.GetWeeklyAverage)
			insights.GET("/summaries", insightsCtl.GetSummaryRange)
		}

		foods := api.Group("/foods")
		{
			foods.GET("/search", foodCtl.SearchFoods)
			foods.POST("/custom", foodCtl.CreateCustomFood)
			foods.GET("/custom", foodCtl.ListCustomFoods)
			foods.DELETE("/custom/:id", foodCtl.DeleteCustomFood)
			foods.POST("/recognize", foodCtl.RecognizeFood)
		}

		api.GET("/suggestions", suggestCtl.GetSuggestions)
		api.GET("/suggestions/context", suggestCtl.GetSuggestionContext)

		sync := api.Group("/sync")
		{
			sync.POST("/push", syncCtl.Push)
			sync.POST("/pull", syncCtl.Pull)
		}

		api.POST("/devices", deviceCtl.Register)
		api.POST("/devices/toggle", deviceCtl.ToggleNotifications)

		api.GET("/ws", rtCtl.SummaryWS)
	}

	return r
}
