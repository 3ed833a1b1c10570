package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/config"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/controllers"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/middlewares"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/routes"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log := config.Log

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("init database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.WithError(err).Fatal("load aws config")
	}

	var mailer services.Mailer
	if cfg.SESEmail != "" {
		mailer = utils.NewSESMailer(awsCfg, cfg.SESEmail)
	} else {
		log.Warn("SES_EMAIL not set, verification and reset emails are disabled")
	}

	var uploader services.ImageUploader
	if cfg.S3Bucket != "" {
		uploader = utils.NewS3Uploader(awsCfg, cfg.S3Bucket, cfg.CloudFrontURL)
	}

	var statsCache services.StatsCache
	if cfg.RedisURL != "" {
		rc, err := services.NewRedisStatsCache(ctx, cfg.RedisURL, cfg.TeamStatsTTL, log)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, team stats are not cached")
		} else {
			statsCache = rc
			defer rc.Close()
		}
	}

	hub := services.NewRealtimeHub()
	push := services.NewPushService(db, awsCfg, cfg.SNSFCMArn, log)
	alerts := services.NewAlertBus(db, hub, push, log)

	authSvc := services.NewAuthService(db, mailer, cfg.JWTSecret, cfg.JWTTTL, log)
	userSvc := services.NewUserService(db, uploader)
	nutritionSvc := services.NewNutritionService(db)
	foodSvc := services.NewFoodService(
		services.NewCalorieNinjasService(cfg.CalorieNinjasKey),
		services.NewRekognitionService(awsCfg),
	)
	sleepSvc := services.NewSleepService(db)
	waterSvc := services.NewWaterService(db)
	journalSvc := services.NewJournalService(db)
	teamSvc := services.NewTeamService(db, alerts, hub, statsCache, log)

	reminder := services.NewSleepReminder(db, alerts, log)
	scheduler, err := services.NewScheduler(cfg.SleepReminderSpec, reminder, log)
	if err != nil {
		log.WithError(err).Fatal("schedule sleep reminders")
	}
	scheduler.Start()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	limiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				limiter.Cleanup(30 * time.Minute)
			}
		}
	}()

	r := routes.SetupRouter(routes.Deps{
		Log:            log,
		JWTSecret:      cfg.JWTSecret,
		Metrics:        middlewares.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AuthLimiter:    limiter,

		Auth:           controllers.NewAuthController(authSvc),
		User:           controllers.NewUserController(userSvc),
		BMI:            controllers.NewBMIController(userSvc),
		Food:           controllers.NewFoodController(foodSvc),
		Nutrition:      controllers.NewNutritionController(nutritionSvc),
		Recipe:         controllers.NewRecipeController(services.NewRecipeService(cfg.EdamamAppID, cfg.EdamamAppKey)),
		Recommendation: controllers.NewRecommendationController(services.NewRecService(nutritionSvc, cfg.HuggingFaceToken)),
		Sleep:          controllers.NewSleepController(sleepSvc),
		Water:          controllers.NewWaterController(waterSvc),
		Journal:        controllers.NewJournalController(journalSvc),
		Team:           controllers.NewTeamController(teamSvc),
		Alert:          controllers.NewAlertController(alerts, push),
		Realtime:       controllers.NewRealtimeController(hub),
		Dashboard:      controllers.NewDashboardController(services.NewDashboardService(nutritionSvc, waterSvc, sleepSvc, journalSvc)),
		Analytics:      controllers.NewAnalyticsController(services.NewAnalyticsService(db, sleepSvc)),
		Health:         controllers.NewHealthController(services.NewHealthService(db)),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	<-scheduler.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
