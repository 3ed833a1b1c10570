package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"
)

type MemberCalories struct {
	UserID      uint   `json:"user_id"`
	User        string `json:"user"`
	AvgCalories int    `json:"avg_calories"`
	Entries     int64  `json:"entries"`
}

type MemberSleep struct {
	UserID   uint    `json:"user_id"`
	User     string  `json:"user"`
	AvgSleep float64 `json:"avg_sleep"`
	Entries  int64   `json:"entries"`
}

type TeamStats struct {
	TeamID      string           `json:"team_id"`
	Nutrition   []MemberCalories `json:"nutrition"`
	Sleep       []MemberSleep    `json:"sleep"`
	GeneratedAt time.Time        `json:"generated_at"`
}

type memberAverage struct {
	UserID  uint
	Avg     float64
	Entries int64
}

func memberLabel(m MemberView) string {
	if m.Username != "" {
		return m.Username
	}
	return fmt.Sprintf("user-%d", m.UserID)
}

// TeamStats reports per-member averages for the approved members of a team.
func (s *TeamService) TeamStats(ctx context.Context, actorID uint, teamID string) (*TeamStats, error) {
	if _, err := s.findTeam(ctx, s.db, teamID); err != nil {
		return nil, err
	}
	actor, err := s.membership(ctx, s.db, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !actor.IsApproved() {
		return nil, forbidden("Only approved members can view team stats.")
	}

	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx, teamID); ok {
			return stats, nil
		}
	}

	members, err := s.members(ctx, teamID, true)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}

	calories, err := s.averages(ctx, &models.NutritionLog{}, "calories", ids)
	if err != nil {
		return nil, fmt.Errorf("nutrition averages: %w", err)
	}
	sleep, err := s.averages(ctx, &models.SleepLog{}, "duration", ids)
	if err != nil {
		return nil, fmt.Errorf("sleep averages: %w", err)
	}

	stats := &TeamStats{
		TeamID:      teamID,
		Nutrition:   []MemberCalories{},
		Sleep:       []MemberSleep{},
		GeneratedAt: s.now(),
	}
	for _, m := range members {
		if a, ok := calories[m.UserID]; ok {
			stats.Nutrition = append(stats.Nutrition, MemberCalories{
				UserID:      m.UserID,
				User:        memberLabel(m),
				AvgCalories: int(utils.Round(a.Avg, 0)),
				Entries:     a.Entries,
			})
		}
		if a, ok := sleep[m.UserID]; ok {
			stats.Sleep = append(stats.Sleep, MemberSleep{
				UserID:   m.UserID,
				User:     memberLabel(m),
				AvgSleep: utils.Round(a.Avg, 1),
				Entries:  a.Entries,
			})
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, teamID, stats)
	}
	return stats, nil
}

// averages computes AVG(column) per user over the table of model.
func (s *TeamService) averages(ctx context.Context, model interface{}, column string, ids []uint) (map[uint]memberAverage, error) {
	out := make(map[uint]memberAverage, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []memberAverage
	err := s.db.WithContext(ctx).Model(model).
		Select("user_id, AVG("+column+") AS avg, COUNT(*) AS entries").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.UserID] = r
	}
	return out, nil
}

func (s *TeamService) invalidateStats(ctx context.Context, teamID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, teamID)
	}
}
