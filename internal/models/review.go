package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is 1-5 star feedback tied to one completed transaction, authored by
// one party about the other. At most one review per (reviewer, transaction).
type Review struct {
	ReviewID      uuid.UUID `gorm:"column:review_id;type:uuid;primaryKey" json:"review_id"`
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;not null;uniqueIndex:idx_reviews_reviewer_tx" json:"transaction_id"`
	ReviewerID    uuid.UUID `gorm:"column:reviewer_id;type:uuid;not null;uniqueIndex:idx_reviews_reviewer_tx" json:"reviewer_id"`
	RevieweeID    uuid.UUID `gorm:"column:reviewee_id;type:uuid;not null;index" json:"reviewee_id"`
	ItemID        uuid.UUID `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	Rating        int       `gorm:"column:rating;not null" json:"rating"`
	Comment       string    `gorm:"column:comment" json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ReviewID == uuid.Nil {
		r.ReviewID = uuid.New()
	}
	return nil
}
