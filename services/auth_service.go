package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	minPasswordLength   = 6
	verificationCodeTTL = 24 * time.Hour
	resetTokenTTL       = 15 * time.Minute
)

// Mailer delivers the transactional emails the auth flow needs.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, code string) error
	SendResetEmail(ctx context.Context, to, token string) error
}

type AuthService struct {
	db        *gorm.DB
	mailer    Mailer
	jwtSecret string
	jwtTTL    time.Duration
	log       *logrus.Logger
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, mailer Mailer, jwtSecret string, jwtTTL time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{
		db:        db,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		log:       log,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("A valid email is required.")
	}
	if len(password) < minPasswordLength {
		return nil, invalid(fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflict("An account with this email already exists.")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:            email,
		Password:         hashed,
		Role:             "user",
		VerificationCode: utils.GenerateNumericCode(6),
		VerificationExp:  s.now().Add(verificationCodeTTL),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("An account with this email already exists.")
		}
		return nil, err
	}

	s.sendVerification(ctx, &user)
	return &user, nil
}

// sendVerification is best-effort: the account exists even if the mail fails.
func (s *AuthService) sendVerification(ctx context.Context, user *models.User) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.VerificationCode); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("verification email not sent")
	}
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return invalid("Invalid or expired verification code.")
	}
	if user.EmailVerified {
		return nil
	}
	if user.VerificationCode == "" || user.VerificationCode != strings.TrimSpace(code) || s.now().After(user.VerificationExp) {
		return invalid("Invalid or expired verification code.")
	}

	return s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"email_verified":    true,
		"verification_code": "",
	}).Error
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil || user.EmailVerified {
		// do not reveal whether the address is registered
		return nil
	}

	user.VerificationCode = utils.GenerateNumericCode(6)
	user.VerificationExp = s.now().Add(verificationCodeTTL)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	s.sendVerification(ctx, user)
	return nil
}

// Login checks credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil || !utils.CheckPasswordHash(password, user.Password) {
		return "", newError(ErrUnauthorized, "Invalid email or password")
	}
	if !user.EmailVerified {
		return "", forbidden("email-not-verified")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return token, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil
	}

	user.ResetToken = utils.GenerateRandomToken(6)
	user.ResetTokenExp = s.now().Add(resetTokenTTL)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendResetEmail(ctx, user.Email, user.ResetToken); err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Warn("reset email not sent")
		}
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return invalid("Invalid or expired token")
	}
	if len(newPassword) < minPasswordLength {
		return invalid(fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error
	if err != nil || s.now().After(user.ResetTokenExp) {
		return invalid("Invalid or expired token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return s.db.WithContext(ctx).Save(&user).Error
}
