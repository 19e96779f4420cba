package auth

import (
	"context"

	"campusxchange-backend/internal/models"
	"campusxchange-backend/internal/pkg/apperr"
	"campusxchange-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Campus   string
}

// Register validates and creates a new account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !validation.IsValidName(in.Name) {
		return nil, apperr.InvalidArgument("Name may contain only letters, spaces, hyphens and apostrophes")
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, apperr.InvalidArgument("Invalid email address")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperr.InvalidArgument("Password must be at least 8 characters with a letter, a number and a special character")
	}

	var existing int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if existing > 0 {
		return nil, apperr.Conflict("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Campus:       in.Campus,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// Login finds a user by email and verifies the password.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.InvalidArgument("Email and password are required")
	}
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.Unauthenticated("Invalid email or password")
		}
		return nil, apperr.Internal(err)
	}
	if u.PasswordHash == "" {
		return nil, apperr.Unauthenticated("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthenticated("Invalid email or password")
	}
	return &u, nil
}
