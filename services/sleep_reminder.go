package services

import (
	"context"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const reminderWindow = 60 // minutes after the reminder time

// SleepReminder nudges users who have not logged tonight's sleep.
type SleepReminder struct {
	db     *gorm.DB
	alerts AlertEmitter
	log    *logrus.Logger
	now    func() time.Time
}

func NewSleepReminder(db *gorm.DB, alerts AlertEmitter, log *logrus.Logger) *SleepReminder {
	return &SleepReminder{db: db, alerts: alerts, log: log, now: time.Now}
}

// reminderDue reports whether now falls within the window starting at reminderTime.
// The window ends at midnight so a reminder stays on the evening it belongs to.
func reminderDue(reminderTime string, now time.Time) bool {
	h, m, err := utils.ParseClock(reminderTime)
	if err != nil {
		return false
	}
	start := h*60 + m
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= start && minutes <= start+reminderWindow
}

// Run sends every due reminder once per day and returns how many were sent.
func (r *SleepReminder) Run(ctx context.Context) (int, error) {
	now := r.now()
	today := utils.DateKey(now)

	var settings []models.SleepSettings
	err := r.db.WithContext(ctx).
		Where("reminders_enabled = ? AND (last_reminder_date IS NULL OR last_reminder_date <> ?)", true, today).
		Find(&settings).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range settings {
		st := &settings[i]
		if !reminderDue(st.ReminderTime, now) {
			continue
		}

		var logged int64
		if err := r.db.WithContext(ctx).Model(&models.SleepLog{}).
			Where("user_id = ? AND date = ? AND is_nap = ?", st.UserID, today, false).
			Count(&logged).Error; err != nil {
			return sent, err
		}
		if logged == 0 {
			r.alerts.Emit(ctx, st.UserID, "info", "sleep.reminder",
				"Time to wind down. Don't forget to log your sleep.")
			sent++
		}

		if err := r.db.WithContext(ctx).Model(st).Update("last_reminder_date", today).Error; err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// NewScheduler registers the reminder job on the given cron schedule. The caller starts and stops it.
func NewScheduler(spec string, reminder *SleepReminder, log *logrus.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(log)),
		cron.SkipIfStillRunning(cron.PrintfLogger(log)),
	))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		sent, err := reminder.Run(ctx)
		if err != nil {
			log.WithError(err).Error("sleep reminder run failed")
			return
		}
		if sent > 0 {
			log.WithField("sent", sent).Info("sleep reminders sent")
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
