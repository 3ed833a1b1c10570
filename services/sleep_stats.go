package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"
)

const (
	DefaultSleepGoal     = 8.0
	DefaultReminderTime  = "22:00"
	DefaultSleepQuality  = 7
	minSleepHours        = 0.5
	maxSleepHours        = 16.0
	summaryWindowDays    = 7
	trendThresholdHours  = 0.3
	maxProgressPercent   = 120.0
	greatSleepScoreFloor = 90
)

// SleepDuration returns hours between bedtime and wakeup (both HH:MM), rounded
// to 2 dp. A wakeup at or before bedtime is taken to be on the next day.
func SleepDuration(bedtime, wakeup string) (float64, error) {
	bh, bm, err := utils.ParseClock(bedtime)
	if err != nil {
		return 0, err
	}
	wh, wm, err := utils.ParseClock(wakeup)
	if err != nil {
		return 0, err
	}
	bed := bh*60 + bm
	wake := wh*60 + wm
	if wake <= bed {
		wake += 24 * 60
	}
	hours := utils.Round(float64(wake-bed)/60, 2)
	if hours <= 0 || hours > 24 {
		return 0, fmt.Errorf("sleep duration %.2fh out of range", hours)
	}
	return hours, nil
}

type SleepDay struct {
	Date       string  `json:"date"`
	Total      float64 `json:"total"`
	Night      float64 `json:"night"`
	Nap        float64 `json:"nap"`
	AvgQuality float64 `json:"avg_quality"`
	Score      int     `json:"score"`
	Entries    int     `json:"entries"`
}

type SleepSummary struct {
	Goal           float64    `json:"goal"`
	Days           []SleepDay `json:"days"`
	Today          *SleepDay  `json:"today"`
	WeeklyAverage  float64    `json:"weekly_average"`
	SleepDebt      float64    `json:"sleep_debt"`
	Streak         int        `json:"streak"`
	TodayProgress  float64    `json:"today_progress"`
	WeeklyProgress float64    `json:"weekly_progress"`
	Badges         []string   `json:"badges"`
	Trend          string     `json:"trend"`
}

// SleepScore weighs night duration against the goal at 60% and quality at 40%.
func SleepScore(night, quality, goal float64) int {
	d := utils.Clamp(night/goal, 0, 1)
	q := utils.Clamp(quality/10, 0, 1)
	return int(utils.Round((d*0.6+q*0.4)*100, 0))
}

func normalizeGoal(goal float64) float64 {
	if goal <= 0 {
		return DefaultSleepGoal
	}
	return goal
}

// groupSleepDays folds entries into one SleepDay per date, oldest first.
func groupSleepDays(logs []models.SleepLog, goal float64) []SleepDay {
	type acc struct {
		day        SleepDay
		qualitySum int
	}
	byDate := map[string]*acc{}
	for _, l := range logs {
		a, ok := byDate[l.Date]
		if !ok {
			a = &acc{day: SleepDay{Date: l.Date}}
			byDate[l.Date] = a
		}
		a.day.Total += l.Duration
		if l.IsNap {
			a.day.Nap += l.Duration
		} else {
			a.day.Night += l.Duration
		}
		a.qualitySum += l.Quality
		a.day.Entries++
	}

	days := make([]SleepDay, 0, len(byDate))
	for _, a := range byDate {
		d := a.day
		d.Total = utils.Round(d.Total, 2)
		d.Night = utils.Round(d.Night, 2)
		d.Nap = utils.Round(d.Nap, 2)
		d.AvgQuality = utils.Round(float64(a.qualitySum)/float64(d.Entries), 1)
		d.Score = SleepScore(d.Night, d.AvgQuality, goal)
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func sleepTrend(days []SleepDay) string {
	if len(days) < 4 {
		return "Not enough data yet"
	}
	split := len(days) - 3
	mean := func(ds []SleepDay) float64 {
		var s float64
		for _, d := range ds {
			s += d.Night
		}
		return s / float64(len(ds))
	}
	diff := mean(days[split:]) - mean(days[:split])
	switch {
	case diff > trendThresholdHours:
		return "Improving"
	case diff < -trendThresholdHours:
		return "Declining"
	default:
		return "Stable"
	}
}

// BuildSleepSummary computes the dashboard numbers. The streak looks at every
// logged day passed in; the weekly figures use the last seven logged days.
func BuildSleepSummary(logs []models.SleepLog, goal float64, today string) SleepSummary {
	goal = normalizeGoal(goal)
	all := groupSleepDays(logs, goal)

	out := SleepSummary{Goal: goal, Days: all, Badges: []string{}}
	if len(all) > summaryWindowDays {
		out.Days = all[len(all)-summaryWindowDays:]
	}

	for i := len(all) - 1; i >= 0 && all[i].Night >= goal; i-- {
		out.Streak++
	}

	if len(out.Days) > 0 {
		var total, debt float64
		for _, d := range out.Days {
			total += d.Night
			if d.Night < goal {
				debt += goal - d.Night
			}
		}
		out.WeeklyAverage = utils.Round(total/float64(len(out.Days)), 2)
		out.SleepDebt = utils.Round(debt, 2)
	}
	out.WeeklyProgress = utils.Round(utils.Clamp(out.WeeklyAverage/goal*100, 0, maxProgressPercent), 0)

	for i := range out.Days {
		if out.Days[i].Date == today {
			d := out.Days[i]
			out.Today = &d
			out.TodayProgress = utils.Round(utils.Clamp(d.Night/goal*100, 0, maxProgressPercent), 0)
		}
	}

	for _, n := range []int{3, 7, 30} {
		if out.Streak >= n {
			out.Badges = append(out.Badges, fmt.Sprintf("%d-Day Streak", n))
		}
	}
	if len(out.Days) > 0 && out.WeeklyAverage >= goal {
		out.Badges = append(out.Badges, "Weekly Goal Met")
	}
	if out.Today != nil && out.Today.Score >= greatSleepScoreFloor {
		out.Badges = append(out.Badges, "Great Sleep Today")
	}

	out.Trend = sleepTrend(out.Days)
	return out
}

type CalendarDay struct {
	Date   string   `json:"date"`
	Hours  *float64 `json:"hours"`
	Bucket string   `json:"bucket"`
}

type SleepCalendar struct {
	Month      string        `json:"month"`
	Days       []CalendarDay `json:"days"`
	Average    float64       `json:"average"`
	LoggedDays int           `json:"logged_days"`
}

// SleepBucket colors a day's total hours.
func SleepBucket(hours *float64) string {
	switch {
	case hours == nil:
		return "none"
	case *hours < 6:
		return "low"
	case *hours <= 8:
		return "ok"
	default:
		return "high"
	}
}

// ParseMonth validates "YYYY-MM" and returns the first day of that month.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(month), time.Local)
	if err != nil {
		return time.Time{}, invalid(fmt.Sprintf("invalid month %q, use YYYY-MM", month))
	}
	return t, nil
}

func BuildSleepCalendar(first time.Time, logs []models.SleepLog) SleepCalendar {
	totals := map[string]float64{}
	for _, l := range logs {
		totals[l.Date] += l.Duration
	}

	cal := SleepCalendar{Month: first.Format("2006-01")}
	var sum float64
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		key := utils.DateKey(d)
		day := CalendarDay{Date: key}
		if h, ok := totals[key]; ok {
			h = utils.Round(h, 2)
			day.Hours = &h
			sum += h
			cal.LoggedDays++
		}
		day.Bucket = SleepBucket(day.Hours)
		cal.Days = append(cal.Days, day)
	}
	if cal.LoggedDays > 0 {
		cal.Average = utils.Round(sum/float64(cal.LoggedDays), 2)
	}
	return cal
}
