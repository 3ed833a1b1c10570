package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"

	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

// ImageUploader stores a base64 data-URI image and returns its public URL.
type ImageUploader interface {
	UploadBase64Image(ctx context.Context, dataURI, filenamePrefix string) (string, error)
}

type SetupInput struct {
	Username       string `json:"username"`
	Gender         string `json:"gender"`
	Age            int    `json:"age"`
	ProfilePicture string `json:"profile_picture"`
}

type Profile struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	Gender         string `json:"gender"`
	Age            int    `json:"age"`
	Role           string `json:"role"`
	EmailVerified  bool   `json:"email_verified"`
	ProfilePicture string `json:"profile_picture"`
	SetupComplete  bool   `json:"setup_complete"`
}

func profileOf(u *models.User) *Profile {
	return &Profile{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		Gender:         u.Gender,
		Age:            u.Age,
		Role:           u.Role,
		EmailVerified:  u.EmailVerified,
		ProfilePicture: u.ProfilePicture,
		SetupComplete:  u.SetupComplete(),
	}
}

type UserService struct {
	db       *gorm.DB
	uploader ImageUploader
}

func NewUserService(db *gorm.DB, uploader ImageUploader) *UserService {
	return &UserService{db: db, uploader: uploader}
}

// ValidateSetup normalizes the input in place and returns the first problem found.
func ValidateSetup(in *SetupInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))

	if !usernamePattern.MatchString(in.Username) {
		return invalid("Username must be 3-30 characters: letters, numbers, _ or - only.")
	}
	if !validGenders[in.Gender] {
		return invalid("Please select a gender.")
	}
	if in.Age < 10 || in.Age > 120 {
		return invalid("Age must be between 10 and 120.")
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

// Setup writes the profile fields and leaves everything else on the user untouched.
func (s *UserService) Setup(ctx context.Context, userID uint, in SetupInput) (*Profile, error) {
	if err := ValidateSetup(&in); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"username": in.Username,
		"gender":   in.Gender,
		"age":      in.Age,
	}

	if in.ProfilePicture != "" {
		if s.uploader == nil {
			return nil, unavailable("Profile pictures are not configured.")
		}
		url, err := s.uploader.UploadBase64Image(ctx, in.ProfilePicture, fmt.Sprintf("user-%d", user.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to upload profile picture: %w", err)
		}
		updates["profile_picture"] = url
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return profileOf(user), nil
}
