package services

import (
	"fmt"
	"strings"
	"time"

	"mood-journal-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// CreateUser registers a nickname and mints the stable user id everything
// else keys on. Nicknames are unique; re-registering one returns the
// existing account (the mobile app re-runs onboarding freely).
func (s *UserService) CreateUser(nickname string) (*models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, fmt.Errorf("nickname is required")
	}

	var existing models.User
	err := s.DB.Where("nickname = ?", nickname).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("lookup nickname %q: %w", nickname, err)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Nickname: nickname,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			// Lost a race with a concurrent registration of the same nickname.
			if err := s.DB.Where("nickname = ?", nickname).First(&existing).Error; err == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("create user %q: %w", nickname, err)
	}
	return &user, nil
}

// GetByID fetches a user row.
func (s *UserService) GetByID(userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user %s not found", userID)
		}
		return nil, fmt.Errorf("fetch user %s: %w", userID, err)
	}
	return &user, nil
}

// TouchLastLogin stamps the user's last login time.
func (s *UserService) TouchLastLogin(userID string) error {
	now := time.Now()
	err := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login", &now).Error
	if err != nil {
		return fmt.Errorf("touch last login for %s: %w", userID, err)
	}
	return nil
}
