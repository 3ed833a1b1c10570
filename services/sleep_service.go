package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"gorm.io/gorm"
)

// streak and badges need more history than the weekly view
const sleepHistoryDays = 45

type SleepInput struct {
	Date    string `json:"date"`
	Bedtime string `json:"bedtime"`
	Wakeup  string `json:"wakeup"`
	Quality *int   `json:"quality"`
	IsNap   bool   `json:"is_nap"`
}

type SleepSettingsInput struct {
	Goal             *float64 `json:"goal"`
	ReminderTime     *string  `json:"reminder_time"`
	RemindersEnabled *bool    `json:"reminders_enabled"`
}

// ValidateSleepInput checks the entry and returns its duration in hours.
func ValidateSleepInput(in *SleepInput) (float64, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Bedtime = strings.TrimSpace(in.Bedtime)
	in.Wakeup = strings.TrimSpace(in.Wakeup)

	if in.Date == "" || in.Bedtime == "" || in.Wakeup == "" {
		return 0, invalid("Date, bedtime and wakeup time are required.")
	}
	if _, err := utils.ParseDateKey(in.Date); err != nil {
		return 0, invalid(err.Error())
	}
	hours, err := SleepDuration(in.Bedtime, in.Wakeup)
	if err != nil {
		return 0, invalid("Invalid bedtime or wakeup time.")
	}
	if hours < minSleepHours {
		return 0, invalid("Sleep duration is too short.")
	}
	if hours > maxSleepHours {
		return 0, invalid("Sleep duration is too long.")
	}

	if in.Quality == nil {
		q := DefaultSleepQuality
		in.Quality = &q
	} else if *in.Quality < 1 || *in.Quality > 10 {
		return 0, invalid("Sleep quality must be between 1 and 10.")
	}
	return hours, nil
}

type SleepService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSleepService(db *gorm.DB) *SleepService {
	return &SleepService{db: db, now: time.Now}
}

func (s *SleepService) CreateEntry(ctx context.Context, userID uint, in SleepInput) (*models.SleepLog, error) {
	hours, err := ValidateSleepInput(&in)
	if err != nil {
		return nil, err
	}
	entry := models.SleepLog{
		UserID:   userID,
		Date:     in.Date,
		Bedtime:  in.Bedtime,
		Wakeup:   in.Wakeup,
		Duration: hours,
		Quality:  *in.Quality,
		IsNap:    in.IsNap,
		LoggedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *SleepService) own(ctx context.Context, userID, id uint) (*models.SleepLog, error) {
	var entry models.SleepLog
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		return nil, notFoundOr(err, "Sleep entry not found.")
	}
	return &entry, nil
}

func (s *SleepService) UpdateEntry(ctx context.Context, userID, id uint, in SleepInput) (*models.SleepLog, error) {
	hours, err := ValidateSleepInput(&in)
	if err != nil {
		return nil, err
	}
	entry, err := s.own(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	entry.Date = in.Date
	entry.Bedtime = in.Bedtime
	entry.Wakeup = in.Wakeup
	entry.Duration = hours
	entry.Quality = *in.Quality
	entry.IsNap = in.IsNap
	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *SleepService) DeleteEntry(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.SleepLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("Sleep entry not found.")
	}
	return nil
}

// ListRecent returns entries from the last days days, newest first.
func (s *SleepService) ListRecent(ctx context.Context, userID uint, days int) ([]models.SleepLog, error) {
	if days <= 0 {
		days = summaryWindowDays
	}
	since := utils.DateKey(s.now().AddDate(0, 0, -(days - 1)))
	var logs []models.SleepLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC, logged_at DESC").
		Find(&logs).Error
	return logs, err
}

func defaultSleepSettings(userID uint) models.SleepSettings {
	return models.SleepSettings{
		UserID:           userID,
		Goal:             DefaultSleepGoal,
		ReminderTime:     DefaultReminderTime,
		RemindersEnabled: true,
	}
}

// GetSettings returns stored settings or the defaults when none were saved.
func (s *SleepService) GetSettings(ctx context.Context, userID uint) (*models.SleepSettings, error) {
	var st models.SleepSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := defaultSleepSettings(userID)
		return &d, nil
	}
	if err != nil {
		return nil, err
	}
	st.Goal = normalizeGoal(st.Goal)
	return &st, nil
}

func (s *SleepService) UpdateSettings(ctx context.Context, userID uint, in SleepSettingsInput) (*models.SleepSettings, error) {
	st, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Goal != nil {
		st.Goal = normalizeGoal(*in.Goal)
	}
	if in.ReminderTime != nil {
		t := strings.TrimSpace(*in.ReminderTime)
		if _, _, err := utils.ParseClock(t); err != nil {
			return nil, invalid("Reminder time must be HH:MM between 00:00 and 23:59.")
		}
		st.ReminderTime = t
	}
	if in.RemindersEnabled != nil {
		st.RemindersEnabled = *in.RemindersEnabled
	}
	if err := s.db.WithContext(ctx).Save(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SleepService) Summary(ctx context.Context, userID uint) (*SleepSummary, error) {
	st, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.ListRecent(ctx, userID, sleepHistoryDays)
	if err != nil {
		return nil, err
	}
	summary := BuildSleepSummary(logs, st.Goal, utils.DateKey(s.now()))
	return &summary, nil
}

func (s *SleepService) Calendar(ctx context.Context, userID uint, month string) (*SleepCalendar, error) {
	if strings.TrimSpace(month) == "" {
		month = s.now().Format("2006-01")
	}
	first, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	last := first.AddDate(0, 1, -1)

	var logs []models.SleepLog
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, utils.DateKey(first), utils.DateKey(last)).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	cal := BuildSleepCalendar(first, logs)
	return &cal, nil
}
