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

const journalListDays = 30

var Moods = []string{"Happy", "Sad", "Angry", "Calm"}

func validMood(m string) bool {
	for _, v := range Moods {
		if v == m {
			return true
		}
	}
	return false
}

type JournalInput struct {
	Date string  `json:"date"`
	Mood string  `json:"mood"`
	Text *string `json:"text"`
}

type JournalService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewJournalService(db *gorm.DB) *JournalService {
	return &JournalService{db: db, now: time.Now}
}

// Save writes today's entry. Text is kept when the input leaves it out.
func (s *JournalService) Save(ctx context.Context, userID uint, date string, in JournalInput) (*models.JournalEntry, error) {
	date = strings.TrimSpace(date)
	if _, err := utils.ParseDateKey(date); err != nil {
		return nil, invalid(err.Error())
	}
	if in.Date != "" && strings.TrimSpace(in.Date) != date {
		return nil, invalid("Entry date does not match.")
	}
	if date != utils.DateKey(s.now()) {
		return nil, invalid("You can only write entries for today.")
	}
	in.Mood = strings.TrimSpace(in.Mood)
	if !validMood(in.Mood) {
		return nil, invalid("Please choose a mood: Happy, Sad, Angry or Calm.")
	}

	var entry models.JournalEntry
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.JournalEntry{UserID: userID, Date: date}
	case err != nil:
		return nil, err
	}

	entry.Mood = in.Mood
	if in.Text != nil {
		entry.Text = *in.Text
	}
	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Entry was saved concurrently, try again.")
		}
		return nil, err
	}
	return &entry, nil
}

func (s *JournalService) Get(ctx context.Context, userID uint, date string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&entry).Error; err != nil {
		return nil, notFoundOr(err, "No entry for this date.")
	}
	return &entry, nil
}

func (s *JournalService) Delete(ctx context.Context, userID uint, date string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).Delete(&models.JournalEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("No entry for this date.")
	}
	return nil
}

// ListRecent maps date keys of the last 30 days to their entries.
func (s *JournalService) ListRecent(ctx context.Context, userID uint) (map[string]models.JournalEntry, error) {
	since := utils.DateKey(s.now().AddDate(0, 0, -(journalListDays - 1)))
	var entries []models.JournalEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.JournalEntry, len(entries))
	for _, e := range entries {
		out[e.Date] = e
	}
	return out, nil
}
