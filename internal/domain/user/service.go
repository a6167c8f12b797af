// internal/domain/user/service.go
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"github.com/your-org/restaurant-backend/internal/pkg/auth"
	"github.com/your-org/restaurant-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// Service handles user accounts and authentication
type Service struct {
	db        *gorm.DB
	config    *config.Config
	jwt       *auth.JWTManager
	passwords *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		jwt:       auth.NewJWTManager(cfg),
		passwords: auth.NewPasswordManager(cfg),
	}
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued tokens and the account view
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Register creates a new account and issues tokens
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(req.Email)

	var existing User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, apperr.Duplicate("account with email '%s' already exists", email)
	}

	hashed, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	account := &User{
		Email:     email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
		Slug:      slug.New(),
	}
	if err := s.db.Create(account).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to create account")
	}

	return s.issueTokens(account)
}

// Login verifies credentials and issues tokens
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var account User
	err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Validation("invalid email or password")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to look up account")
	}

	if !account.IsActive {
		return nil, apperr.Validation("account is deactivated")
	}

	if err := s.passwords.VerifyPassword(req.Password, account.Password); err != nil {
		return nil, apperr.Validation("invalid email or password")
	}

	now := time.Now().UTC()
	account.LastLoginAt = &now
	if err := s.db.Model(&account).Update("last_login_at", now).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to record login")
	}

	return s.issueTokens(&account)
}

// RefreshToken exchanges a valid refresh token for new tokens
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Validation("invalid refresh token")
	}

	var account User
	if err := s.db.First(&account, claims.UserID).Error; err != nil {
		return nil, apperr.NotFound("account not found")
	}
	if !account.IsActive {
		return nil, apperr.Validation("account is deactivated")
	}

	return s.issueTokens(&account)
}

// GetProfile retrieves an account by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var account User
	err := s.db.First(&account, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("account not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve account")
	}
	return &account, nil
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// UpdateProfile mutates the editable profile fields
func (s *Service) UpdateProfile(userID uint, req *UpdateProfileRequest) (*User, error) {
	account, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}

	if err := s.db.Save(account).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to update profile")
	}
	return account, nil
}

func (s *Service) issueTokens(account *User) (*AuthResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to generate access token")
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to generate refresh token")
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         account,
	}, nil
}
