package services

import (
	"context"
	"errors"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"
)

type Dashboard struct {
	Date      string            `json:"date"`
	Nutrition *NutritionSummary `json:"nutrition"`
	Water     *WaterProgress    `json:"water"`
	Sleep     *SleepSummary     `json:"sleep"`
	Mood      *string           `json:"mood"`
}

type DashboardService struct {
	nutrition *NutritionService
	water     *WaterService
	sleep     *SleepService
	journal   *JournalService
	now       func() time.Time
}

func NewDashboardService(n *NutritionService, w *WaterService, s *SleepService, j *JournalService) *DashboardService {
	return &DashboardService{nutrition: n, water: w, sleep: s, journal: j, now: time.Now}
}

// Today collects the day's numbers from each tracker.
func (d *DashboardService) Today(ctx context.Context, userID uint) (*Dashboard, error) {
	today := utils.DateKey(d.now())
	out := &Dashboard{Date: today}

	var err error
	if out.Nutrition, err = d.nutrition.DaySummary(ctx, userID, today); err != nil {
		return nil, err
	}
	if out.Water, err = d.water.Today(ctx, userID); err != nil {
		return nil, err
	}
	if out.Sleep, err = d.sleep.Summary(ctx, userID); err != nil {
		return nil, err
	}

	entry, err := d.journal.Get(ctx, userID, today)
	switch {
	case err == nil:
		out.Mood = &entry.Mood
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	return out, nil
}
