package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MlPerKg    = 35.0
	GlassMl    = 250.0
	maxHistory = 90
)

type WaterProgress struct {
	models.WaterIntake
	Percent     int  `json:"percent"`
	GoalReached bool `json:"goal_reached"`
}

type WaterInput struct {
	Weight  *float64 `json:"weight"`
	Glasses *int     `json:"glasses"`
	ExtraMl *float64 `json:"extra_ml"`
}

// ComputeWaterProgress fills in the derived amounts on rec. Percent and goal use the
// exact target; Recommended is rounded for display.
func ComputeWaterProgress(rec models.WaterIntake) WaterProgress {
	target := rec.Weight * MlPerKg
	rec.Recommended = utils.Round(target, 2)
	rec.Consumed = float64(rec.Glasses)*GlassMl + rec.ExtraMl

	p := WaterProgress{WaterIntake: rec}
	if target > 0 {
		p.Percent = int(math.Round(math.Min(rec.Consumed/target*100, 100)))
	}
	p.GoalReached = rec.Weight > 0 && rec.Consumed >= target
	return p
}

type WaterService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewWaterService(db *gorm.DB) *WaterService {
	return &WaterService{db: db, now: time.Now}
}

func (s *WaterService) load(ctx context.Context, db *gorm.DB, userID uint, date string) (models.WaterIntake, error) {
	var rec models.WaterIntake
	err := db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.WaterIntake{UserID: userID, Date: date}, nil
	}
	return rec, err
}

// Today returns today's record, zeroed when nothing was saved yet.
func (s *WaterService) Today(ctx context.Context, userID uint) (*WaterProgress, error) {
	rec, err := s.load(ctx, s.db, userID, utils.DateKey(s.now()))
	if err != nil {
		return nil, err
	}
	p := ComputeWaterProgress(rec)
	return &p, nil
}

// mutateToday applies fn to today's record under a row lock. The row is created
// first so concurrent first writes of the day serialize on the same lock.
func (s *WaterService) mutateToday(ctx context.Context, userID uint, fn func(*models.WaterIntake) error) (*WaterProgress, error) {
	date := utils.DateKey(s.now())
	var out WaterProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&models.WaterIntake{UserID: userID, Date: date}).Error; err != nil {
			return err
		}

		var rec models.WaterIntake
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND date = ?", userID, date).
			First(&rec).Error; err != nil {
			return err
		}
		if err := fn(&rec); err != nil {
			return err
		}
		out = ComputeWaterProgress(rec)
		rec = out.WaterIntake
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		out.WaterIntake = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveToday merges the given fields into today's record.
func (s *WaterService) SaveToday(ctx context.Context, userID uint, in WaterInput) (*WaterProgress, error) {
	if (in.Weight != nil && *in.Weight < 0) || (in.Glasses != nil && *in.Glasses < 0) || (in.ExtraMl != nil && *in.ExtraMl < 0) {
		return nil, invalid("Values cannot be negative.")
	}
	return s.mutateToday(ctx, userID, func(rec *models.WaterIntake) error {
		if in.Weight != nil {
			rec.Weight = *in.Weight
		}
		if in.Glasses != nil {
			rec.Glasses = *in.Glasses
		}
		if in.ExtraMl != nil {
			rec.ExtraMl = *in.ExtraMl
		}
		return nil
	})
}

// AddGlasses adds delta glasses; the count never drops below zero.
func (s *WaterService) AddGlasses(ctx context.Context, userID uint, delta int) (*WaterProgress, error) {
	return s.mutateToday(ctx, userID, func(rec *models.WaterIntake) error {
		rec.Glasses += delta
		if rec.Glasses < 0 {
			rec.Glasses = 0
		}
		return nil
	})
}

func (s *WaterService) AddCustom(ctx context.Context, userID uint, ml float64) (*WaterProgress, error) {
	if ml <= 0 {
		return nil, invalid("Amount must be greater than 0 ml.")
	}
	return s.mutateToday(ctx, userID, func(rec *models.WaterIntake) error {
		rec.ExtraMl += ml
		return nil
	})
}

// History returns saved records of the last days days, newest first.
func (s *WaterService) History(ctx context.Context, userID uint, days int) ([]WaterProgress, error) {
	if days <= 0 || days > maxHistory {
		days = 7
	}
	since := utils.DateKey(s.now().AddDate(0, 0, -(days - 1)))
	var recs []models.WaterIntake
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]WaterProgress, 0, len(recs))
	for _, r := range recs {
		out = append(out, ComputeWaterProgress(r))
	}
	return out, nil
}
