package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/config"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type emitted struct {
	UserID uint
	Source string
}

type recordingAlerts struct {
	mu  sync.Mutex
	got []emitted
}

func (r *recordingAlerts) Emit(_ context.Context, userID uint, _, source, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, emitted{UserID: userID, Source: source})
}

type recordingHub struct {
	mu    sync.Mutex
	kinds []string
}

func (h *recordingHub) BroadcastMany(userIDs []uint, payload any) {
	for _, id := range userIDs {
		h.Broadcast(id, payload)
	}
}

func (h *recordingHub) Broadcast(_ uint, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ev, ok := payload.(TeamEvent); ok {
		h.kinds = append(h.kinds, ev.Kind)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("healthplus_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, username string) uint {
	u := models.User{Email: email, Password: "x", Username: username, EmailVerified: true}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestTeamLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()

	alerts := &recordingAlerts{}
	hub := &recordingHub{}
	svc := NewTeamService(db, alerts, hub, nil, log)

	alice := createUser(t, db, "alice@example.com", "alice")
	bob := createUser(t, db, "bob@example.com", "bob")
	carol := createUser(t, db, "carol@example.com", "")

	team, err := svc.CreateTeam(ctx, "  Morning Runners ", alice)
	require.NoError(t, err)
	assert.Equal(t, "Morning Runners", team.Name)
	assert.NotEmpty(t, team.InviteCode)

	// lookup hides the code, and codes are case-insensitive
	found, err := svc.FindTeamByInviteCode(ctx, "  "+strings.ToUpper(team.InviteCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, team.ID, found.ID)
	assert.Empty(t, found.InviteCode)

	_, err = svc.FindTeamByInviteCode(ctx, "nope-nope")
	assert.ErrorIs(t, err, ErrNotFound)

	m, err := svc.JoinByInviteCode(ctx, bob, team.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, m.Status)
	assert.Equal(t, models.RoleMember, m.Role)

	_, err = svc.RequestToJoin(ctx, bob, team.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, msgAlreadyPending)

	_, err = svc.RequestToJoin(ctx, alice, team.ID)
	assert.EqualError(t, err, msgAlreadyMember)

	_, err = svc.RequestToJoin(ctx, carol, team.ID)
	require.NoError(t, err)

	assert.Contains(t, alerts.got, emitted{UserID: alice, Source: "team.join_request"})

	// pending members may list members but not approve or read stats
	members, err := svc.GetTeamMembers(ctx, bob, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "alice", members[0].Username)
	assert.Equal(t, models.RoleAdmin, members[0].Role)

	_, err = svc.ApproveMember(ctx, bob, team.ID, carol)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.TeamStats(ctx, bob, team.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	approved, err := svc.ApproveMember(ctx, alice, team.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = svc.ApproveMember(ctx, alice, team.ID, bob)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.ApproveMember(ctx, alice, team.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	// non-admin cannot see the invite code, the creator can
	view, err := svc.GetTeam(ctx, bob, team.ID)
	require.NoError(t, err)
	assert.Empty(t, view.InviteCode)
	view, err = svc.GetTeam(ctx, alice, team.ID)
	require.NoError(t, err)
	assert.Equal(t, team.InviteCode, view.InviteCode)

	outsider := createUser(t, db, "dave@example.com", "dave")
	_, err = svc.GetTeamMembers(ctx, outsider, team.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	teams, err := svc.GetUserTeams(ctx, bob)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, models.StatusApproved, teams[0].Membership.Status)

	// stats only cover approved members
	require.NoError(t, db.Create(&[]models.NutritionLog{
		{UserID: alice, Date: "2024-05-01", Name: "oats", Calories: 2000},
		{UserID: alice, Date: "2024-05-02", Name: "rice", Calories: 1500},
		{UserID: bob, Date: "2024-05-01", Name: "pasta", Calories: 1800},
		{UserID: carol, Date: "2024-05-01", Name: "cake", Calories: 3000},
	}).Error)
	require.NoError(t, db.Create(&[]models.SleepLog{
		{UserID: alice, Date: "2024-05-01", Duration: 7},
		{UserID: alice, Date: "2024-05-02", Duration: 8},
	}).Error)

	stats, err := svc.TeamStats(ctx, bob, team.ID)
	require.NoError(t, err)
	require.Len(t, stats.Nutrition, 2)
	assert.Equal(t, MemberCalories{UserID: alice, User: "alice", AvgCalories: 1750, Entries: 2}, stats.Nutrition[0])
	assert.Equal(t, 1800, stats.Nutrition[1].AvgCalories)
	require.Len(t, stats.Sleep, 1)
	assert.Equal(t, 7.5, stats.Sleep[0].AvgSleep)

	// only admins remove others; anyone may leave
	err = svc.RemoveMember(ctx, bob, team.ID, carol)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.RemoveMember(ctx, alice, team.ID, alice)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, svc.RemoveMember(ctx, alice, team.ID, carol))
	require.NoError(t, svc.RemoveMember(ctx, bob, team.ID, bob))
	require.NoError(t, svc.RemoveMember(ctx, alice, team.ID, alice))

	_, err = svc.GetTeam(ctx, alice, team.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	hub.mu.Lock()
	assert.Contains(t, hub.kinds, "team.member.requested")
	assert.Contains(t, hub.kinds, "team.member.approved")
	assert.Contains(t, hub.kinds, "team.member.removed")
	hub.mu.Unlock()
}

func TestRegenerateInviteCode(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()
	svc := NewTeamService(db, nil, nil, nil, log)

	codes := []string{"aaaa-1111", "aaaa-1111", "bbbb-2222"}
	svc.newInviteCode = func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	team, err := svc.CreateTeam(ctx, "Sleepers", 1)
	require.NoError(t, err)
	assert.Equal(t, "aaaa-1111", team.InviteCode)

	_, err = svc.RegenerateInviteCode(ctx, 2, team.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// the colliding draw is skipped
	team, err = svc.RegenerateInviteCode(ctx, 1, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "bbbb-2222", team.InviteCode)

	_, err = svc.FindTeamByInviteCode(ctx, "aaaa-1111")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDailyTrackersWithPostgres(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	today := time.Date(2024, 5, 6, 9, 30, 0, 0, time.Local)
	clock := func() time.Time { return today }

	nutrition := NewNutritionService(db)
	nutrition.now = clock

	sum, err := nutrition.DaySummary(ctx, 1, "2024-05-06")
	require.NoError(t, err)
	assert.Nil(t, sum)

	_, err = nutrition.LogItem(ctx, 1, "", FoodNutrition{Name: "egg", Calories: 78.5, ProteinG: 6.3})
	require.NoError(t, err)
	_, err = nutrition.LogItem(ctx, 1, "2024-05-06", FoodNutrition{Name: "toast", Calories: 80.25})
	require.NoError(t, err)

	sum, err = nutrition.DaySummary(ctx, 1, "2024-05-06")
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 2, sum.Entries)
	assert.Equal(t, 158.75, sum.Calories)

	water := NewWaterService(db)
	water.now = clock
	weight := 60.0
	p, err := water.SaveToday(ctx, 1, WaterInput{Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, 2100.0, p.Recommended)

	p, err = water.AddGlasses(ctx, 1, 3)
	require.NoError(t, err)
	p, err = water.AddCustom(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 800.0, p.Consumed)

	p, err = water.AddGlasses(ctx, 1, -10)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Glasses)

	var rows int64
	require.NoError(t, db.Model(&models.WaterIntake{}).Where("user_id = ?", 1).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	journal := NewJournalService(db)
	journal.now = clock

	_, err = journal.Save(ctx, 1, "2024-05-05", JournalInput{Mood: "Happy"})
	assert.ErrorIs(t, err, ErrValidation)

	text := "long walk"
	_, err = journal.Save(ctx, 1, "2024-05-06", JournalInput{Mood: "Calm", Text: &text})
	require.NoError(t, err)
	entry, err := journal.Save(ctx, 1, "2024-05-06", JournalInput{Mood: "Happy"})
	require.NoError(t, err)
	assert.Equal(t, "Happy", entry.Mood)
	assert.Equal(t, "long walk", entry.Text)

	recent, err := journal.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	require.NoError(t, journal.Delete(ctx, 1, "2024-05-06"))
	_, err = journal.Get(ctx, 1, "2024-05-06")
	assert.ErrorIs(t, err, ErrNotFound)
}

type recordingCache struct {
	mu          sync.Mutex
	stored      map[string]*TeamStats
	invalidated []string
}

func (c *recordingCache) Get(_ context.Context, teamID string) (*TeamStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stored[teamID]
	return s, ok
}

func (c *recordingCache) Set(_ context.Context, teamID string, stats *TeamStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stored == nil {
		c.stored = map[string]*TeamStats{}
	}
	c.stored[teamID] = stats
}

func (c *recordingCache) Invalidate(_ context.Context, teamID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stored, teamID)
	c.invalidated = append(c.invalidated, teamID)
}

func TestRemoveMemberInvalidatesStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()
	cache := &recordingCache{}
	svc := NewTeamService(db, nil, nil, cache, log)

	team, err := svc.CreateTeam(ctx, "Walkers", 1)
	require.NoError(t, err)
	_, err = svc.RequestToJoin(ctx, 2, team.ID)
	require.NoError(t, err)
	_, err = svc.ApproveMember(ctx, 1, team.ID, 2)
	require.NoError(t, err)

	_, err = svc.TeamStats(ctx, 1, team.ID)
	require.NoError(t, err)
	_, cached := cache.Get(ctx, team.ID)
	require.True(t, cached)

	require.NoError(t, svc.RemoveMember(ctx, 1, team.ID, 2))
	_, cached = cache.Get(ctx, team.ID)
	assert.False(t, cached)
	assert.Equal(t, []string{team.ID, team.ID}, cache.invalidated)
}

func TestSleepReminderRun(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()
	alerts := &recordingAlerts{}

	require.NoError(t, db.Create(&[]models.SleepSettings{
		{UserID: 1, Goal: 8, ReminderTime: "22:00", RemindersEnabled: true},
		{UserID: 2, Goal: 8, ReminderTime: "22:00", RemindersEnabled: true},
		{UserID: 3, Goal: 8, ReminderTime: "22:00", RemindersEnabled: false},
		{UserID: 4, Goal: 8, ReminderTime: "23:30", RemindersEnabled: true},
	}).Error)
	// user 2 already logged tonight; a nap does not count for user 1
	require.NoError(t, db.Create(&[]models.SleepLog{
		{UserID: 2, Date: "2024-05-06", Bedtime: "21:00", Wakeup: "05:00", Duration: 8},
		{UserID: 1, Date: "2024-05-06", Bedtime: "14:00", Wakeup: "15:00", Duration: 1, IsNap: true},
	}).Error)

	r := NewSleepReminder(db, alerts, log)
	at := func(d, h, m int) { r.now = func() time.Time { return time.Date(2024, 5, d, h, m, 0, 0, time.Local) } }

	at(6, 21, 59)
	sent, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	at(6, 22, 10)
	sent, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []emitted{{UserID: 1, Source: "sleep.reminder"}}, alerts.got)

	// once per day
	at(6, 22, 40)
	sent, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	at(6, 23, 45)
	sent, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// after midnight the late reminder does not fire again for the new day
	at(7, 0, 10)
	sent, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	var st models.SleepSettings
	require.NoError(t, db.Where("user_id = ?", 4).First(&st).Error)
	assert.Equal(t, "2024-05-06", st.LastReminderDate)

	at(7, 23, 35)
	sent, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, alerts.got, 3)
}

func TestEntriesOfOtherUsersAreNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	sleep := NewSleepService(db)
	entry, err := sleep.CreateEntry(ctx, 1, SleepInput{Date: "2024-05-06", Bedtime: "23:00", Wakeup: "07:00"})
	require.NoError(t, err)
	assert.Equal(t, 8.0, entry.Duration)
	assert.Equal(t, DefaultSleepQuality, entry.Quality)

	_, err = sleep.UpdateEntry(ctx, 2, entry.ID, SleepInput{Date: "2024-05-06", Bedtime: "22:00", Wakeup: "07:00"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, sleep.DeleteEntry(ctx, 2, entry.ID), ErrNotFound)

	updated, err := sleep.UpdateEntry(ctx, 1, entry.ID, SleepInput{Date: "2024-05-06", Bedtime: "22:00", Wakeup: "07:00"})
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.Duration)
	require.NoError(t, sleep.DeleteEntry(ctx, 1, entry.ID))

	nutrition := NewNutritionService(db)
	logEntry, err := nutrition.LogItem(ctx, 1, "2024-05-06", FoodNutrition{Name: "apple", Calories: 95})
	require.NoError(t, err)

	assert.ErrorIs(t, nutrition.DeleteLog(ctx, 2, logEntry.ID), ErrNotFound)
	require.NoError(t, nutrition.DeleteLog(ctx, 1, logEntry.ID))
	assert.ErrorIs(t, nutrition.DeleteLog(ctx, 1, logEntry.ID), ErrNotFound)
}

func TestWaterFirstWritesOfTheDayDoNotLoseUpdates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	water := NewWaterService(db)
	water.now = func() time.Time { return time.Date(2024, 5, 6, 8, 0, 0, 0, time.Local) }

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := water.AddGlasses(ctx, 1, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := water.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, writers, p.Glasses)
	assert.Equal(t, float64(writers)*GlassMl, p.Consumed)
}
