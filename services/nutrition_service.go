package services

import (
	"context"
	"strings"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"gorm.io/gorm"
)

// NutritionSummary is the day's totals. Field names follow the logged item.
type NutritionSummary struct {
	Date                string  `json:"date"`
	Entries             int     `json:"entries"`
	Calories            float64 `json:"calories"`
	ProteinG            float64 `json:"protein_g"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FatTotalG           float64 `json:"fat_total_g"`
	SugarG              float64 `json:"sugar_g"`
	CholesterolMg       float64 `json:"cholesterol_mg"`
	SodiumMg            float64 `json:"sodium_mg"`
	PotassiumMg         float64 `json:"potassium_mg"`
}

type NutritionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewNutritionService(db *gorm.DB) *NutritionService {
	return &NutritionService{db: db, now: time.Now}
}

// resolveDate returns today's key for an empty date and validates anything else.
func resolveDate(date string, now time.Time) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return utils.DateKey(now), nil
	}
	if _, err := utils.ParseDateKey(date); err != nil {
		return "", invalid(err.Error())
	}
	return date, nil
}

func (s *NutritionService) LogItem(ctx context.Context, userID uint, date string, item FoodNutrition) (*models.NutritionLog, error) {
	date, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, invalid("Food name is required.")
	}
	if item.Calories < 0 {
		return nil, invalid("Calories cannot be negative.")
	}

	entry := models.NutritionLog{
		UserID:              userID,
		Date:                date,
		Name:                item.Name,
		ServingSizeG:        item.ServingSizeG,
		Calories:            item.Calories,
		ProteinG:            item.ProteinG,
		CarbohydratesTotalG: item.CarbohydratesTotalG,
		FatTotalG:           item.FatTotalG,
		FatSaturatedG:       item.FatSaturatedG,
		FiberG:              item.FiberG,
		SugarG:              item.SugarG,
		CholesterolMg:       item.CholesterolMg,
		SodiumMg:            item.SodiumMg,
		PotassiumMg:         item.PotassiumMg,
		LoggedAt:            s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *NutritionService) ListDay(ctx context.Context, userID uint, date string) ([]models.NutritionLog, error) {
	date, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}
	var logs []models.NutritionLog
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("logged_at ASC, id ASC").
		Find(&logs).Error
	return logs, err
}

// DaySummary returns nil when nothing was logged on date.
func (s *NutritionService) DaySummary(ctx context.Context, userID uint, date string) (*NutritionSummary, error) {
	if strings.TrimSpace(date) == "" {
		return nil, invalid("date is required")
	}
	logs, err := s.ListDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return SummarizeNutrition(date, logs), nil
}

func SummarizeNutrition(date string, logs []models.NutritionLog) *NutritionSummary {
	if len(logs) == 0 {
		return nil
	}
	sum := NutritionSummary{Date: date, Entries: len(logs)}
	for _, l := range logs {
		sum.Calories += l.Calories
		sum.ProteinG += l.ProteinG
		sum.CarbohydratesTotalG += l.CarbohydratesTotalG
		sum.FatTotalG += l.FatTotalG
		sum.SugarG += l.SugarG
		sum.CholesterolMg += l.CholesterolMg
		sum.SodiumMg += l.SodiumMg
		sum.PotassiumMg += l.PotassiumMg
	}
	for _, f := range []*float64{
		&sum.Calories, &sum.ProteinG, &sum.CarbohydratesTotalG, &sum.FatTotalG,
		&sum.SugarG, &sum.CholesterolMg, &sum.SodiumMg, &sum.PotassiumMg,
	} {
		*f = utils.Round(*f, 2)
	}
	return &sum
}

// DeleteLog removes one of the user's own entries.
func (s *NutritionService) DeleteLog(ctx context.Context, userID, logID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", logID, userID).Delete(&models.NutritionLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("Log entry not found.")
	}
	return nil
}
