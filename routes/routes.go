package routes

import (
	"net/http"

	"github.com/iamkhush/weekly-meals/config"
	"github.com/iamkhush/weekly-meals/controllers"
	"github.com/iamkhush/weekly-meals/middlewares"
	"github.com/iamkhush/weekly-meals/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	repo := services.NewPlanRepository(config.DB)
	planSvc := services.NewPlanService(repo, config.StrictPlanSlots())
	mealSvc := services.NewMealService(config.DB)
	hub := services.NewTraceHub()
	suggestSvc := services.NewSuggestionService(repo, services.NewGeminiClient(), hub)

	mealCtl := controllers.NewMealController(mealSvc)
	planCtl := controllers.NewPlanController(planSvc)
	suggestCtl := controllers.NewSuggestionController(suggestSvc)
	traceCtl := controllers.NewTraceController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	authorized := r.Group("/")
	authorized.Use(middlewares.AuthMiddleware())
	{
		authorized.GET("/user/profile", controllers.GetProfile)
		authorized.PUT("/user/profile", controllers.UpdateProfile)

		authorized.GET("/meals", mealCtl.ListMeals)
		authorized.POST("/meals", mealCtl.CreateMeal)
		authorized.GET("/meals/:id", mealCtl.GetMeal)
		authorized.PUT("/meals/:id", mealCtl.UpdateMeal)
		authorized.DELETE("/meals/:id", mealCtl.DeleteMeal)

		authorized.GET("/plans/current", planCtl.GetCurrentWeek)
		authorized.GET("/plans/:year/:week", planCtl.GetWeek)
		authorized.POST("/plans/:year/:week/entries", planCtl.AddEntry)
		authorized.DELETE("/plans/:year/:week/entries/:id", planCtl.DeleteEntry)
		authorized.POST("/plans/:year/:week/email", planCtl.EmailWeek)

		authorized.POST("/suggestions", suggestCtl.Suggest)

		authorized.GET("/ws/traces", traceCtl.TracesWS)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	crs := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return func(c *gin.Context) {
		crs.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
