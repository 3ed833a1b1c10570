package routes

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/controllers"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps is everything the router needs. Nil Metrics or AuthLimiter disables them.
type Deps struct {
	Log            *logrus.Logger
	JWTSecret      string
	Metrics        *middlewares.Metrics
	MetricsHandler http.Handler
	AuthLimiter    *middlewares.RateLimiter

	Auth           *controllers.AuthController
	User           *controllers.UserController
	BMI            *controllers.BMIController
	Food           *controllers.FoodController
	Nutrition      *controllers.NutritionController
	Recipe         *controllers.RecipeController
	Recommendation *controllers.RecommendationController
	Sleep          *controllers.SleepController
	Water          *controllers.WaterController
	Journal        *controllers.JournalController
	Team           *controllers.TeamController
	Alert          *controllers.AlertController
	Realtime       *controllers.RealtimeController
	Dashboard      *controllers.DashboardController
	Analytics      *controllers.AnalyticsController
	Health         *controllers.HealthController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestID(), middlewares.CORS(), middlewares.RequestLogger(d.Log), gin.Recovery())
	if d.Metrics != nil {
		r.Use(d.Metrics.Handler())
	}

	r.GET("/healthz", d.Health.Check)
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	// Public auth routes
	auth := r.Group("/auth")
	if d.AuthLimiter != nil {
		auth.Use(d.AuthLimiter.Handler())
	}
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/verify", d.Auth.VerifyEmail)
		auth.POST("/resend-verification", d.Auth.ResendVerification)
		auth.POST("/login", d.Auth.Login)
		auth.POST("/forgot-password", d.Auth.ForgotPassword)
		auth.POST("/reset-password", d.Auth.ResetPassword)
	}

	// Everything below needs a valid token
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware(d.JWTSecret))

	user := api.Group("/user")
	{
		user.GET("/profile", d.User.GetProfile)
		user.PUT("/setup", d.User.Setup)
		user.GET("/alerts", d.Alert.List)
		user.POST("/devices", d.Alert.RegisterDevice)
		user.POST("/notifications/toggle", d.Alert.ToggleNotifications)
	}

	api.GET("/ws/alerts", d.Realtime.AlertsWS)
	api.GET("/dashboard/today", d.Dashboard.Today)
	api.GET("/analytics/summary", d.Analytics.GetAnalyticsSummary)
	api.GET("/analytics/weekly", d.Analytics.GetWeeklyOverview)
	api.POST("/bmi", d.BMI.Calculate)
	api.GET("/recipes", d.Recipe.Search)
	api.GET("/recommendations", d.Recommendation.Get)

	food := api.Group("/food")
	{
		food.GET("/nutrition", d.Food.Lookup)
		food.GET("/compare", d.Food.Compare)
		food.POST("/recognize", d.Food.Recognize)
	}

	nutrition := api.Group("/nutrition")
	{
		nutrition.POST("/logs", d.Nutrition.LogItem)
		nutrition.GET("/logs", d.Nutrition.ListDay)
		nutrition.DELETE("/logs/:id", d.Nutrition.Delete)
		nutrition.GET("/summary", d.Nutrition.Summary)
	}

	sleep := api.Group("/sleep")
	{
		sleep.POST("/logs", d.Sleep.Create)
		sleep.GET("/logs", d.Sleep.List)
		sleep.PUT("/logs/:id", d.Sleep.Update)
		sleep.DELETE("/logs/:id", d.Sleep.Delete)
		sleep.GET("/settings", d.Sleep.GetSettings)
		sleep.PUT("/settings", d.Sleep.UpdateSettings)
		sleep.GET("/summary", d.Sleep.Summary)
		sleep.GET("/calendar", d.Sleep.Calendar)
	}

	water := api.Group("/water")
	{
		water.GET("/today", d.Water.Today)
		water.PUT("/today", d.Water.Save)
		water.POST("/glass", d.Water.AddGlass)
		water.DELETE("/glass", d.Water.RemoveGlass)
		water.POST("/custom", d.Water.AddCustom)
		water.GET("/history", d.Water.History)
	}

	journal := api.Group("/journal")
	{
		journal.GET("", d.Journal.List)
		journal.GET("/:date", d.Journal.Get)
		journal.PUT("/:date", d.Journal.Save)
		journal.DELETE("/:date", d.Journal.Delete)
	}

	assessments := api.Group("/assessments")
	{
		assessments.GET("", controllers.ListAssessments)
		assessments.GET("/:id", controllers.GetAssessment)
		assessments.POST("/:id/score", controllers.ScoreAssessment)
	}

	teams := api.Group("/teams")
	{
		teams.POST("", d.Team.Create)
		teams.GET("", d.Team.Mine)
		teams.GET("/lookup", d.Team.FindByCode)
		teams.POST("/join", d.Team.JoinByCode)
		teams.GET("/:id", d.Team.Get)
		teams.POST("/:id/join", d.Team.RequestToJoin)
		teams.GET("/:id/members", d.Team.Members)
		teams.POST("/:id/members/:userId/approve", d.Team.Approve)
		teams.DELETE("/:id/members/:userId", d.Team.Remove)
		teams.POST("/:id/invite-code", d.Team.RegenerateCode)
		teams.GET("/:id/stats", d.Team.Stats)
	}

	return r
}
