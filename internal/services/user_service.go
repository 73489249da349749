package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Dalab21/emotunes/internal/logger"
	"github.com/Dalab21/emotunes/internal/models"
)

// UserService covers profile reads and the small admin surface.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetProfile returns a user with the role relation loaded.
func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users ordered by creation time, newest first.
func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Preload("Role").Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateRole changes a user's role to one of the fixed role IDs.
func (s *UserService) UpdateRole(userID uint, roleID uint) error {
	switch roleID {
	case models.RoleAdmin, models.RoleUser, models.RolePremium:
	default:
		return fmt.Errorf("%w: unknown role id %d", ErrValidation, roleID)
	}

	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("role_id", roleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	logger.Info("user role updated", logger.Int("user_id", int(userID)), logger.Int("role_id", int(roleID)))
	return nil
}
