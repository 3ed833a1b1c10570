package models

import "time"

type SleepLog struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"index:idx_sleep_user_date;not null" json:"user_id"`
	Date     string    `gorm:"size:10;index:idx_sleep_user_date;not null" json:"date"`
	Bedtime  string    `gorm:"size:5" json:"bedtime"` // HH:MM
	Wakeup   string    `gorm:"size:5" json:"wakeup"`
	Duration float64   `json:"duration"` // hours
	Quality  int       `json:"quality"`  // 1..10
	IsNap    bool      `json:"is_nap"`
	LoggedAt time.Time `json:"logged_at"`
}

type SleepSettings struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Goal             float64   `json:"goal"`
	ReminderTime     string    `gorm:"size:5" json:"reminder_time"`
	RemindersEnabled bool      `json:"reminders_enabled"`
	LastReminderDate string    `gorm:"size:10" json:"-"`
	UpdatedAt        time.Time `json:"updated_at"`
}
