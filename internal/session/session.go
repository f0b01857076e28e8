package session

import (
	"errors"
	"strings"
	"time"

	"reviewqr-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotFound           = errors.New("session_not_found")
	ErrExpired            = errors.New("session_expired")
)

// Service issues and validates server-side sessions with enforced expiry.
// Nothing about being "logged in" is trusted from the client.
type Service struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewService(db *gorm.DB, ttl time.Duration) *Service {
	return &Service{db: db, ttl: ttl}
}

// Login checks the credential against admin_users and issues a session.
func (s *Service) Login(email, password string) (*models.Session, *models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.AdminUser
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess := models.Session{
		Token:      uuid.NewString(),
		UserID:     user.ID,
		Role:       user.Role,
		BusinessID: user.BusinessID,
		ExpiresAt:  time.Now().UTC().Add(s.ttl),
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return nil, nil, err
	}
	return &sess, &user, nil
}

// Get resolves a token to a live session. Expired sessions are removed as
// they are seen.
func (s *Service) Get(token string) (*models.Session, error) {
	var sess models.Session
	err := s.db.First(&sess, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if time.Now().UTC().After(sess.ExpiresAt) {
		s.db.Delete(&models.Session{}, "token = ?", token)
		return nil, ErrExpired
	}
	return &sess, nil
}

func (s *Service) Logout(token string) error {
	return s.db.Delete(&models.Session{}, "token = ?", token).Error
}
