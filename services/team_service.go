package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxTeamNameLength  = 100
	inviteCodeAttempts = 5
)

const (
	msgAlreadyMember  = "You are already a member of this team."
	msgAlreadyPending = "Join request already pending for this team."
)

// TeamView is a team as one particular user may see it.
type TeamView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedBy  uint      `json:"created_by"`
	InviteCode string    `json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserTeam struct {
	Team       TeamView          `json:"team"`
	Membership models.TeamMember `json:"membership"`
}

type MemberView struct {
	UserID     uint       `json:"user_id"`
	Username   string     `json:"username"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// TeamEvent is pushed over the websocket hub when a membership changes.
type TeamEvent struct {
	Kind   string `json:"kind"`
	TeamID string `json:"team_id"`
	UserID uint   `json:"user_id"`
}

type TeamService struct {
	db     *gorm.DB
	alerts AlertEmitter
	hub    Broadcaster
	cache  StatsCache
	log    *logrus.Logger
	now    func() time.Time

	newInviteCode func() string
}

func NewTeamService(db *gorm.DB, alerts AlertEmitter, hub Broadcaster, cache StatsCache, log *logrus.Logger) *TeamService {
	return &TeamService{
		db:            db,
		alerts:        alerts,
		hub:           hub,
		cache:         cache,
		log:           log,
		now:           time.Now,
		newInviteCode: utils.GenerateInviteCode,
	}
}

func viewOf(t *models.Team, showCode bool) TeamView {
	v := TeamView{ID: t.ID, Name: t.Name, CreatedBy: t.CreatedBy, CreatedAt: t.CreatedAt}
	if showCode {
		v.InviteCode = t.InviteCode
	}
	return v
}

func canSeeInviteCode(t *models.Team, m *models.TeamMember, userID uint) bool {
	return t.CreatedBy == userID || (m != nil && m.IsAdmin())
}

// uniqueInviteCode draws codes until one is unused.
func (s *TeamService) uniqueInviteCode(tx *gorm.DB) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code := s.newInviteCode()
		var n int64
		if err := tx.Model(&models.Team{}).Where("invite_code = ?", code).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique invite code after %d attempts", inviteCodeAttempts)
}

// CreateTeam inserts the team and makes the creator its approved admin.
func (s *TeamService) CreateTeam(ctx context.Context, name string, createdBy uint) (*TeamView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Team name is required.")
	}
	if len(name) > maxTeamNameLength {
		return nil, invalid(fmt.Sprintf("Team name must be at most %d characters.", maxTeamNameLength))
	}

	var team models.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.uniqueInviteCode(tx)
		if err != nil {
			return err
		}
		now := s.now()
		team = models.Team{
			ID:         uuid.NewString(),
			Name:       name,
			CreatedBy:  createdBy,
			InviteCode: code,
		}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		return tx.Create(&models.TeamMember{
			TeamID:     team.ID,
			UserID:     createdBy,
			Role:       models.RoleAdmin,
			Status:     models.StatusApproved,
			ApprovedAt: &now,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.log.WithFields(logrus.Fields{"team_id": team.ID, "user_id": createdBy}).Info("team created")
	v := viewOf(&team, true)
	return &v, nil
}

func (s *TeamService) membership(ctx context.Context, db *gorm.DB, teamID string, userID uint) (*models.TeamMember, error) {
	var m models.TeamMember
	err := db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *TeamService) findTeam(ctx context.Context, db *gorm.DB, teamID string) (*models.Team, error) {
	var team models.Team
	if err := db.WithContext(ctx).First(&team, "id = ?", teamID).Error; err != nil {
		return nil, notFoundOr(err, "Team not found.")
	}
	return &team, nil
}

// GetUserTeams lists every team the user belongs to or asked to join.
func (s *TeamService) GetUserTeams(ctx context.Context, userID uint) ([]UserTeam, error) {
	var memberships []models.TeamMember
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []UserTeam{}, nil
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.TeamID)
	}
	var teams []models.Team
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Team, len(teams))
	for i := range teams {
		byID[teams[i].ID] = &teams[i]
	}

	out := make([]UserTeam, 0, len(memberships))
	for i := range memberships {
		m := &memberships[i]
		t, ok := byID[m.TeamID]
		if !ok {
			continue
		}
		out = append(out, UserTeam{Team: viewOf(t, canSeeInviteCode(t, m, userID)), Membership: *m})
	}
	return out, nil
}

func (s *TeamService) GetTeam(ctx context.Context, userID uint, teamID string) (*TeamView, error) {
	team, err := s.findTeam(ctx, s.db, teamID)
	if err != nil {
		return nil, err
	}
	m, err := s.membership(ctx, s.db, teamID, userID)
	if err != nil {
		return nil, err
	}
	v := viewOf(team, canSeeInviteCode(team, m, userID))
	return &v, nil
}

func normalizeInviteCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// FindTeamByInviteCode resolves a code to its team. The code itself is not echoed.
func (s *TeamService) FindTeamByInviteCode(ctx context.Context, code string) (*TeamView, error) {
	code = normalizeInviteCode(code)
	if code == "" {
		return nil, invalid("Invite code is required.")
	}
	var team models.Team
	if err := s.db.WithContext(ctx).Where("invite_code = ?", code).First(&team).Error; err != nil {
		return nil, notFoundOr(err, "No team found for this invite code.")
	}
	v := viewOf(&team, false)
	return &v, nil
}

func (s *TeamService) JoinByInviteCode(ctx context.Context, userID uint, code string) (*models.TeamMember, error) {
	team, err := s.FindTeamByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.RequestToJoin(ctx, userID, team.ID)
}

// RequestToJoin records a pending membership. The team row is locked so that
// concurrent requests for the same team see each other's writes.
func (s *TeamService) RequestToJoin(ctx context.Context, userID uint, teamID string) (*models.TeamMember, error) {
	var (
		member models.TeamMember
		team   *models.Team
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Team
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "id = ?", teamID).Error; err != nil {
			return notFoundOr(err, "Team not found.")
		}
		team = &t

		existing, err := s.membership(ctx, tx, teamID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.IsApproved() {
				return conflict(msgAlreadyMember)
			}
			return conflict(msgAlreadyPending)
		}

		member = models.TeamMember{
			TeamID: teamID,
			UserID: userID,
			Role:   models.RoleMember,
			Status: models.StatusPending,
		}
		if err := tx.Create(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict(msgAlreadyPending)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	admins, err := s.adminIDs(ctx, teamID)
	if err != nil {
		s.log.WithError(err).WithField("team_id", teamID).Warn("could not load team admins")
	}
	name := s.displayName(ctx, userID)
	for _, id := range admins {
		s.notify(ctx, id, "team.join_request", fmt.Sprintf("%s asked to join %s.", name, team.Name))
	}
	s.publish(ctx, teamID, "team.member.requested", userID)
	return &member, nil
}

// ApproveMember turns a pending request into an approved membership.
func (s *TeamService) ApproveMember(ctx context.Context, actorID uint, teamID string, userID uint) (*models.TeamMember, error) {
	var (
		target models.TeamMember
		team   *models.Team
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if team, err = s.lockTeam(tx, teamID); err != nil {
			return err
		}
		if err := s.requireAdmin(ctx, tx, teamID, actorID); err != nil {
			return err
		}

		m, err := s.membership(ctx, tx, teamID, userID)
		if err != nil {
			return err
		}
		if m == nil {
			return notFound("Member not found.")
		}
		if m.IsApproved() {
			return conflict("Member is already approved.")
		}

		now := s.now()
		m.Status = models.StatusApproved
		m.ApprovedAt = &now
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		target = *m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, teamID)
	s.notify(ctx, userID, "team.approved", fmt.Sprintf("Your request to join %s was approved.", team.Name))
	s.publish(ctx, teamID, "team.member.approved", userID)
	return &target, nil
}

// RemoveMember deletes a membership. Admins may remove anyone; anyone may leave.
// A team left without members is deleted.
func (s *TeamService) RemoveMember(ctx context.Context, actorID uint, teamID string, userID uint) error {
	var (
		teamDeleted bool
		remaining   []uint
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockTeam(tx, teamID); err != nil {
			return err
		}
		actor, err := s.membership(ctx, tx, teamID, actorID)
		if err != nil {
			return err
		}
		if actor == nil {
			return forbidden("You are not a member of this team.")
		}
		if actorID != userID && !actor.IsAdmin() {
			return forbidden("Only team admins can remove members.")
		}

		target, err := s.membership(ctx, tx, teamID, userID)
		if err != nil {
			return err
		}
		if target == nil {
			return notFound("Member not found.")
		}

		if target.IsAdmin() {
			var otherAdmins, others int64
			if err := tx.Model(&models.TeamMember{}).
				Where("team_id = ? AND user_id <> ? AND role = ? AND status = ?", teamID, userID, models.RoleAdmin, models.StatusApproved).
				Count(&otherAdmins).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.TeamMember{}).
				Where("team_id = ? AND user_id <> ?", teamID, userID).
				Count(&others).Error; err != nil {
				return err
			}
			if otherAdmins == 0 && others > 0 {
				return conflict("The last admin cannot leave while other members remain.")
			}
		}

		if err := tx.Delete(target).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Pluck("user_id", &remaining).Error; err != nil {
			return err
		}
		if len(remaining) == 0 {
			teamDeleted = true
			return tx.Delete(&models.Team{}, "id = ?", teamID).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx, teamID)
	entry := s.log.WithFields(logrus.Fields{"team_id": teamID, "user_id": userID, "actor_id": actorID})
	if teamDeleted {
		entry.Info("last member left, team deleted")
	} else {
		entry.Info("member removed")
	}

	ev := TeamEvent{Kind: "team.member.removed", TeamID: teamID, UserID: userID}
	s.broadcast(append(remaining, userID), ev)
	return nil
}

// GetTeamMembers lists members oldest first. Any membership, pending included, may read it.
func (s *TeamService) GetTeamMembers(ctx context.Context, actorID uint, teamID string) ([]MemberView, error) {
	if _, err := s.findTeam(ctx, s.db, teamID); err != nil {
		return nil, err
	}
	actor, err := s.membership(ctx, s.db, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, forbidden("You are not a member of this team.")
	}
	return s.members(ctx, teamID, false)
}

func (s *TeamService) members(ctx context.Context, teamID string, approvedOnly bool) ([]MemberView, error) {
	q := s.db.WithContext(ctx).
		Table("team_members").
		Select("team_members.user_id, COALESCE(users.username, '') AS username, team_members.role, team_members.status, team_members.created_at, team_members.approved_at").
		Joins("LEFT JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID)
	if approvedOnly {
		q = q.Where("team_members.status = ?", models.StatusApproved)
	}

	var out []MemberView
	if err := q.Order("team_members.created_at ASC, team_members.id ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []MemberView{}
	}
	return out, nil
}

func (s *TeamService) RegenerateInviteCode(ctx context.Context, actorID uint, teamID string) (*TeamView, error) {
	var team *models.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if team, err = s.lockTeam(tx, teamID); err != nil {
			return err
		}
		if err := s.requireAdmin(ctx, tx, teamID, actorID); err != nil {
			return err
		}
		code, err := s.uniqueInviteCode(tx)
		if err != nil {
			return err
		}
		team.InviteCode = code
		return tx.Model(team).Update("invite_code", code).Error
	})
	if err != nil {
		return nil, err
	}
	v := viewOf(team, true)
	return &v, nil
}

func (s *TeamService) lockTeam(tx *gorm.DB, teamID string) (*models.Team, error) {
	var team models.Team
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&team, "id = ?", teamID).Error; err != nil {
		return nil, notFoundOr(err, "Team not found.")
	}
	return &team, nil
}

func (s *TeamService) requireAdmin(ctx context.Context, db *gorm.DB, teamID string, userID uint) error {
	m, err := s.membership(ctx, db, teamID, userID)
	if err != nil {
		return err
	}
	if m == nil || !m.IsAdmin() {
		return forbidden("Only team admins can do this.")
	}
	return nil
}

func (s *TeamService) adminIDs(ctx context.Context, teamID string) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND role = ? AND status = ?", teamID, models.RoleAdmin, models.StatusApproved).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (s *TeamService) displayName(ctx context.Context, userID uint) string {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "username").First(&user, userID).Error; err == nil && user.Username != "" {
		return user.Username
	}
	return fmt.Sprintf("user-%d", userID)
}

func (s *TeamService) notify(ctx context.Context, userID uint, source, message string) {
	if s.alerts != nil {
		s.alerts.Emit(ctx, userID, "info", source, message)
	}
}

// publish sends a membership event to every current member of the team.
func (s *TeamService) publish(ctx context.Context, teamID, kind string, userID uint) {
	if s.hub == nil {
		return
	}
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.TeamMember{}).Where("team_id = ?", teamID).Pluck("user_id", &ids).Error; err != nil {
		s.log.WithError(err).WithField("team_id", teamID).Warn("team event not published")
		return
	}
	s.broadcast(ids, TeamEvent{Kind: kind, TeamID: teamID, UserID: userID})
}

func (s *TeamService) broadcast(userIDs []uint, ev TeamEvent) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastMany(userIDs, ev)
}
