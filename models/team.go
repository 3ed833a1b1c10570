package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	StatusPending  = "pending"
	StatusApproved = "approved"
)

type Team struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name       string    `gorm:"not null;size:100" json:"name"`
	CreatedBy  uint      `gorm:"index;not null" json:"created_by"`
	InviteCode string    `gorm:"size:16;uniqueIndex;not null" json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TeamMember is one user's membership in one team. The pair is unique.
type TeamMember struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	TeamID     string     `gorm:"type:varchar(36);uniqueIndex:idx_team_member;not null" json:"team_id"`
	UserID     uint       `gorm:"uniqueIndex:idx_team_member;index;not null" json:"user_id"`
	Role       string     `gorm:"size:10;not null" json:"role"`
	Status     string     `gorm:"size:10;not null;index" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

func (m *TeamMember) IsApproved() bool { return m.Status == StatusApproved }

func (m *TeamMember) IsAdmin() bool {
	return m.Role == RoleAdmin && m.Status == StatusApproved
}
