package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port    string `env:"PORT,default=8080"`
	GinMode string `env:"GIN_MODE,default=debug"`

	DBHost     string `env:"DB_HOST,default=localhost"`
	DBUser     string `env:"DB_USER,default=postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME,default=healthplus"`
	DBPort     string `env:"DB_PORT,default=5432"`
	DBSSLMode  string `env:"DB_SSLMODE,default=disable"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=72h"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	AWSRegion     string `env:"AWS_REGION,default=ap-south-1"`
	S3Bucket      string `env:"S3_BUCKET"`
	CloudFrontURL string `env:"CLOUDFRONT_URL"`
	SESEmail      string `env:"SES_EMAIL"`
	SNSFCMArn     string `env:"SNS_FCM_ARN"`

	CalorieNinjasKey string `env:"CALORIE_NINJAS_API_KEY"`
	EdamamAppID      string `env:"EDAMAM_APP_ID"`
	EdamamAppKey     string `env:"EDAMAM_APP_KEY"`
	HuggingFaceToken string `env:"HUGGINGFACE_TOKEN"`

	RedisURL     string        `env:"REDIS_URL"`
	TeamStatsTTL time.Duration `env:"TEAM_STATS_TTL,default=2m"`

	RateLimitRPS   int `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST,default=10"`

	SleepReminderSpec string `env:"SLEEP_REMINDER_SPEC,default=@every 1m"`
}

// Load reads .env (if present) and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		Log.Warnf("no .env file loaded: %v", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// InitDB opens the postgres connection and migrates every model.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.NutritionLog{},
		&models.SleepLog{},
		&models.SleepSettings{},
		&models.WaterIntake{},
		&models.JournalEntry{},
		&models.Alert{},
		&models.UserDevice{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
