package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Dalab21/emotunes/internal/config"
	"github.com/Dalab21/emotunes/internal/logger"
	"github.com/Dalab21/emotunes/internal/models"
	"github.com/Dalab21/emotunes/pkg/crypto"
	jwtpkg "github.com/Dalab21/emotunes/pkg/jwt"
	"github.com/Dalab21/emotunes/pkg/validation"
)

// AuthService is the credential store: it registers users with salted
// hashes and authenticates them into sessions.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

// Session is an authenticated user context referencing username and role.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

// Register creates a new user account with the default role. Validation
// failures never touch the database; the insert commits immediately.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	username = validation.SanitizeString(username)
	email = validation.SanitizeString(email)

	if !validation.RequireAll(username, email, password) {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !validation.ValidateEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	var existing models.User
	err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		if existing.Username == username {
			return nil, fmt.Errorf("%w: username taken", ErrDuplicateUser)
		}
		return nil, fmt.Errorf("%w: email already registered", ErrDuplicateUser)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	hash, err := crypto.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       models.RoleUser,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user registered", logger.String("username", username))
	return user, nil
}

// Login authenticates a user and returns a session with access and refresh
// tokens.
func (s *AuthService) Login(username, password string) (*Session, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown username", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)
	role := user.RoleName()

	accessToken, err := jwtpkg.GenerateToken(userID, user.Username, role, jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwtpkg.GenerateToken(userID, user.Username, role, jwtpkg.RefreshToken, s.cfg.JWTSecret, s.cfg.JWTRefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshTokenDuration),
	}
	if err := s.db.Create(refreshTokenModel).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (s *AuthService) RefreshToken(refreshToken string) (string, error) {
	claims, err := jwtpkg.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil || claims.TokenType != jwtpkg.RefreshToken {
		return "", ErrInvalidCredentials
	}

	var stored models.RefreshToken
	if err := s.db.Where("token = ?", refreshToken).First(&stored).Error; err != nil {
		return "", ErrInvalidCredentials
	}
	if time.Now().After(stored.ExpiresAt) {
		return "", ErrInvalidCredentials
	}

	user, err := s.GetUserByID(stored.UserID)
	if err != nil {
		return "", err
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)
	return jwtpkg.GenerateToken(userID, user.Username, user.RoleName(), jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
}

// Logout revokes all refresh tokens for a user.
func (s *AuthService) Logout(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

// ValidateAccessToken checks an access token and returns its claims.
func (s *AuthService) ValidateAccessToken(token string) (*jwtpkg.Claims, error) {
	claims, err := jwtpkg.ValidateToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwtpkg.AccessToken {
		return nil, errors.New("not an access token")
	}
	return claims, nil
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}

// EnsureAdminUser bootstraps the admin account when credentials are
// configured and the account does not exist yet.
func (s *AuthService) EnsureAdminUser() error {
	if s.cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := s.db.Where("username = ?", s.cfg.AdminUsername).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := crypto.HashPassword(s.cfg.AdminPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username:     s.cfg.AdminUsername,
		Email:        s.cfg.AdminEmail,
		PasswordHash: hash,
		RoleID:       models.RoleAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	logger.Info("admin user bootstrapped", logger.String("username", s.cfg.AdminUsername))
	return nil
}
