package profile

import (
	"context"
	"time"

	"campusxchange-backend/internal/models"
	"campusxchange-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// PublicProfile is the view of a user safe to show to anyone.
type PublicProfile struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profile_image"`
	Campus       string    `json:"campus"`
	Rating       float64   `json:"rating"`
	MemberSince  time.Time `json:"member_since"`
}

func (s *Service) ViewUser(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}
	return &PublicProfile{
		UserID:       u.UserID,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
		Campus:       u.Campus,
		Rating:       u.Rating,
		MemberSince:  u.CreatedAt,
	}, nil
}
