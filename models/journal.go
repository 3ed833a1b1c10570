package models

import "time"

type JournalEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"uniqueIndex:idx_journal_user_date;not null" json:"-"`
	Date      string    `gorm:"size:10;uniqueIndex:idx_journal_user_date;not null" json:"date"`
	Mood      string    `gorm:"size:16;not null" json:"mood"`
	Text      string    `gorm:"type:text" json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}
