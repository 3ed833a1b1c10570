package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"size:20;default:user" json:"role"`

	// Profile, filled in by the setup step
	Username       string `gorm:"size:30" json:"username"`
	Gender         string `gorm:"size:10" json:"gender"`
	Age            int    `json:"age"`
	ProfilePicture string `json:"profile_picture"`

	EmailVerified    bool      `gorm:"default:false" json:"email_verified"`
	VerificationCode string    `gorm:"size:6" json:"-"`
	VerificationExp  time.Time `json:"-"`
	ResetToken       string    `gorm:"size:16;index" json:"-"`
	ResetTokenExp    time.Time `json:"-"`
}

// SetupComplete reports whether the profile step has been done.
func (u *User) SetupComplete() bool {
	return u.Username != "" && u.Gender != "" && u.Age > 0
}
