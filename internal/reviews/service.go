package reviews

import (
	"context"
	"errors"
	"math"

	"campusxchange-backend/internal/models"
	"campusxchange-backend/internal/pkg/apperr"
	"campusxchange-backend/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type SubmitInput struct {
	TransactionID uuid.UUID
	Rating        int
	Comment       string
}

// Submit records feedback on a completed transaction and recomputes the
// reviewee's aggregate rating in the same unit of work.
func (s *Service) Submit(ctx context.Context, reviewerID uuid.UUID, in SubmitInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.InvalidArgument("Rating must be between 1 and 5")
	}

	var txn models.Transaction
	if err := s.DB.WithContext(ctx).Where("transaction_id = ?", in.TransactionID).First(&txn).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Transaction not found")
		}
		return nil, apperr.Internal(err)
	}
	if txn.BuyerID != reviewerID && txn.SellerID != reviewerID {
		return nil, apperr.Forbidden("Only a party to the transaction can review it")
	}
	if txn.Status != models.StatusCompleted {
		return nil, apperr.Conflict("Transaction is not completed")
	}

	revieweeID := txn.SellerID
	if reviewerID == txn.SellerID {
		revieweeID = txn.BuyerID
	}

	review := &models.Review{
		TransactionID: in.TransactionID,
		ReviewerID:    reviewerID,
		RevieweeID:    revieweeID,
		ItemID:        txn.ItemID,
		Rating:        in.Rating,
		Comment:       in.Comment,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return recomputeRating(tx, revieweeID)
	})
	if err != nil {
		// The (transaction, reviewer) unique index is the duplicate gate, so
		// concurrent submissions cannot slip past a read-then-insert check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("You have already reviewed this transaction")
		}
		return nil, apperr.Internal(err)
	}
	return review, nil
}

// recomputeRating folds all reviews for the user into a mean rounded to one
// decimal place, stored on the profile.
func recomputeRating(tx *gorm.DB, userID uuid.UUID) error {
	var avg *float64
	err := tx.Model(&models.Review{}).
		Where("reviewee_id = ?", userID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return err
	}
	rating := 0.0
	if avg != nil {
		rating = math.Round(*avg*10) / 10
	}
	return tx.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("rating", rating).Error
}

// UserReviews is the list payload: reviews plus the computed average.
type UserReviews struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	Total         int64           `json:"total"`
}

// ListForUser returns reviews about a user, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, p pagination.Params) (*UserReviews, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Review{}).Where("reviewee_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var reviews []models.Review
	err := q.Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var avg *float64
	err = s.DB.WithContext(ctx).Model(&models.Review{}).
		Where("reviewee_id = ?", userID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	out := &UserReviews{Reviews: reviews, Total: total}
	if avg != nil {
		out.AverageRating = math.Round(*avg*10) / 10
	}
	return out, total, nil
}
