package services

import (
	"context"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"gorm.io/gorm"
)

const maxAnalyticsRangeDays = 366

type AnalyticsService struct {
	db    *gorm.DB
	sleep *SleepService
}

func NewAnalyticsService(db *gorm.DB, sleep *SleepService) *AnalyticsService {
	return &AnalyticsService{db: db, sleep: sleep}
}

// DayTotals is everything tracked on one date key.
type DayTotals struct {
	Date          string  `json:"date"`
	Calories      float64 `json:"calories"`
	ProteinG      float64 `json:"protein_g"`
	CarbsG        float64 `json:"carbs_g"`
	FatG          float64 `json:"fat_g"`
	SodiumMg      float64 `json:"sodium_mg"`
	SugarG        float64 `json:"sugar_g"`
	WaterMl       float64 `json:"water_ml"`
	WaterTargetMl float64 `json:"water_target_ml"`
	SleepHours    float64 `json:"sleep_hours"`
}

func (d *DayTotals) empty() bool {
	return d.Calories == 0 && d.ProteinG == 0 && d.CarbsG == 0 && d.FatG == 0 &&
		d.SodiumMg == 0 && d.SugarG == 0 && d.WaterMl == 0 && d.SleepHours == 0
}

type NutrAvg struct {
	AvgConsumed float64 `json:"avg_consumed"`
	Unit        string  `json:"unit,omitempty"`
}

type AnalyticsSummary struct {
	Range struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"range"`

	Macros map[string]NutrAvg `json:"macros"` // calories, protein, carbs, fat
	Micros map[string]NutrAvg `json:"micros"` // sodium, sugar
	Other  map[string]NutrAvg `json:"other"`  // hydration, sleep

	Metadata struct {
		DaysCounted        int  `json:"days_counted"`
		IncludeMissingDays bool `json:"include_missing_days"`
	} `json:"metadata"`
}

// dailyTotals loads per-day sums from every tracker between from and to.
func (s *AnalyticsService) dailyTotals(ctx context.Context, userID uint, from, to string) (map[string]*DayTotals, error) {
	out := map[string]*DayTotals{}
	day := func(date string) *DayTotals {
		d, ok := out[date]
		if !ok {
			d = &DayTotals{Date: date}
			out[date] = d
		}
		return d
	}

	var nutrition []struct {
		Date                                         string
		Calories, Protein, Carbs, Fat, Sodium, Sugar float64
	}
	if err := s.db.WithContext(ctx).Model(&models.NutritionLog{}).
		Select("date, SUM(calories) AS calories, SUM(protein_g) AS protein, SUM(carbohydrates_total_g) AS carbs, "+
			"SUM(fat_total_g) AS fat, SUM(sodium_mg) AS sodium, SUM(sugar_g) AS sugar").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Group("date").
		Scan(&nutrition).Error; err != nil {
		return nil, err
	}
	for _, r := range nutrition {
		d := day(r.Date)
		d.Calories, d.ProteinG, d.CarbsG, d.FatG = r.Calories, r.Protein, r.Carbs, r.Fat
		d.SodiumMg, d.SugarG = r.Sodium, r.Sugar
	}

	var water []models.WaterIntake
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Find(&water).Error; err != nil {
		return nil, err
	}
	for _, w := range water {
		p := ComputeWaterProgress(w)
		d := day(w.Date)
		d.WaterMl, d.WaterTargetMl = p.Consumed, p.Recommended
	}

	var sleep []struct {
		Date  string
		Hours float64
	}
	if err := s.db.WithContext(ctx).Model(&models.SleepLog{}).
		Select("date, SUM(duration) AS hours").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Group("date").
		Scan(&sleep).Error; err != nil {
		return nil, err
	}
	for _, r := range sleep {
		day(r.Date).SleepHours = r.Hours
	}
	return out, nil
}

func (s *AnalyticsService) Summary(ctx context.Context, userID uint, from, to time.Time, includeMissing bool) (*AnalyticsSummary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	totals, err := s.dailyTotals(ctx, userID, utils.DateKey(from), utils.DateKey(to))
	if err != nil {
		return nil, err
	}
	return buildAnalyticsSummary(from, to, totals, includeMissing), nil
}

// validateRange accepts at most maxAnalyticsRangeDays calendar days, both ends included.
func validateRange(from, to time.Time) error {
	days := utils.DaysBetween(from, to) + 1
	if days < 1 {
		return invalid("`to` must be on/after `from`")
	}
	if days > maxAnalyticsRangeDays {
		return invalid("range is limited to one year")
	}
	return nil
}

func buildAnalyticsSummary(from, to time.Time, totals map[string]*DayTotals, includeMissing bool) *AnalyticsSummary {
	var days []DayTotals
	for d := from; !utils.DateKeyAfter(d, to); d = d.AddDate(0, 0, 1) {
		t, ok := totals[utils.DateKey(d)]
		switch {
		case ok && !t.empty():
			days = append(days, *t)
		case includeMissing:
			days = append(days, DayTotals{Date: utils.DateKey(d)})
		}
	}

	var sum DayTotals
	for _, d := range days {
		sum.Calories += d.Calories
		sum.ProteinG += d.ProteinG
		sum.CarbsG += d.CarbsG
		sum.FatG += d.FatG
		sum.SodiumMg += d.SodiumMg
		sum.SugarG += d.SugarG
		sum.WaterMl += d.WaterMl
		sum.SleepHours += d.SleepHours
	}
	n := len(days)

	out := &AnalyticsSummary{}
	out.Range.From = utils.DateKey(from)
	out.Range.To = utils.DateKey(to)
	out.Metadata.DaysCounted = n
	out.Metadata.IncludeMissingDays = includeMissing

	out.Macros = map[string]NutrAvg{
		"calories": {AvgConsumed: avg(sum.Calories, n), Unit: "kcal"},
		"protein":  {AvgConsumed: avg(sum.ProteinG, n), Unit: "g"},
		"carbs":    {AvgConsumed: avg(sum.CarbsG, n), Unit: "g"},
		"fat":      {AvgConsumed: avg(sum.FatG, n), Unit: "g"},
	}
	out.Micros = map[string]NutrAvg{
		"sodium": {AvgConsumed: avg(sum.SodiumMg, n), Unit: "mg"},
		"sugar":  {AvgConsumed: avg(sum.SugarG, n), Unit: "g"},
	}
	out.Other = map[string]NutrAvg{
		"hydration": {AvgConsumed: avg(sum.WaterMl, n), Unit: "ml"},
		"sleep":     {AvgConsumed: avg(sum.SleepHours, n), Unit: "hours"},
	}
	return out
}

// ---------- Weekly Overview ----------

type Metric struct {
	Actual  float64 `json:"actual"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
}

type DayOverview struct {
	Date    string            `json:"date"`
	Metrics map[string]Metric `json:"metrics"`
}

type WeeklyOverviewResponse struct {
	WeekStart string        `json:"week_start"`
	Days      []DayOverview `json:"days"`
}

// WeeklyOverview reports seven days from weekStart against the user's targets.
func (s *AnalyticsService) WeeklyOverview(ctx context.Context, userID uint, weekStart time.Time) (*WeeklyOverviewResponse, error) {
	from := utils.DateKey(weekStart)
	to := utils.DateKey(weekStart.AddDate(0, 0, 6))

	totals, err := s.dailyTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	settings, err := s.sleep.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &WeeklyOverviewResponse{WeekStart: from, Days: make([]DayOverview, 0, 7)}
	for i := 0; i < 7; i++ {
		key := utils.DateKey(weekStart.AddDate(0, 0, i))
		dt := DayTotals{Date: key}
		if t, ok := totals[key]; ok {
			dt = *t
		}
		out.Days = append(out.Days, DayOverview{
			Date: key,
			Metrics: map[string]Metric{
				"calories":    {Actual: utils.Round(dt.Calories, 2)},
				"water_ml":    {Actual: utils.Round(dt.WaterMl, 2), Target: dt.WaterTargetMl, Percent: pct(dt.WaterMl, dt.WaterTargetMl)},
				"sleep_hours": {Actual: utils.Round(dt.SleepHours, 2), Target: settings.Goal, Percent: pct(dt.SleepHours, settings.Goal)},
			},
		})
	}
	return out, nil
}

func pct(actual, goal float64) float64 {
	if goal <= 0 {
		if actual <= 0 {
			return 0
		}
		return 100
	}
	return utils.Round((actual/goal)*100.0, 2)
}

func avg(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return utils.Round(sum/float64(n), 2)
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	tt := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return tt.AddDate(0, 0, -(wd - 1))
}
