package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campusxchange-backend/internal/models"
	"campusxchange-backend/internal/pkg/apperr"
	"campusxchange-backend/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	ItemID       uuid.UUID
	Message      string
	IsTrade      bool
	TradedItemID *uuid.UUID
	Price        *float64
}

// Create opens a negotiation on an item. The item (and the traded item, for
// barter) is reserved in the same unit of work as the transaction insert.
func (s *Service) Create(ctx context.Context, buyerID uuid.UUID, in CreateInput) (*models.Transaction, error) {
	var item models.Item
	if err := s.DB.WithContext(ctx).Where("item_id = ?", in.ItemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Item not found")
		}
		return nil, apperr.Internal(err)
	}
	if item.OwnerID == buyerID {
		return nil, apperr.Forbidden("Cannot create a transaction for your own item")
	}

	if in.IsTrade {
		if in.TradedItemID == nil {
			return nil, apperr.InvalidArgument("Traded item ID is required for a trade")
		}
		var traded models.Item
		err := s.DB.WithContext(ctx).
			Where("item_id = ? AND owner_id = ?", *in.TradedItemID, buyerID).
			First(&traded).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperr.InvalidArgument("Traded item not found or not owned by you")
			}
			return nil, apperr.Internal(err)
		}
	} else {
		if in.Price == nil {
			return nil, apperr.InvalidArgument("Price is required for non-trade transactions")
		}
		if *in.Price < 0 {
			return nil, apperr.InvalidArgument("Price cannot be negative")
		}
	}

	var existing int64
	err := s.DB.WithContext(ctx).Model(&models.Transaction{}).
		Where("item_id = ? AND buyer_id = ? AND status = ?", in.ItemID, buyerID, models.StatusPending).
		Count(&existing).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing > 0 {
		return nil, apperr.Conflict("A pending transaction already exists for this item")
	}

	message := in.Message
	if message == "" {
		message = "I'm interested in this item"
		if in.IsTrade {
			message += " and would like to trade."
		}
	}

	txn := &models.Transaction{
		ItemID:   in.ItemID,
		SellerID: item.OwnerID,
		BuyerID:  buyerID,
		Status:   models.StatusPending,
		IsTrade:  in.IsTrade,
	}
	if in.IsTrade {
		txn.TradedItemID = in.TradedItemID
	} else {
		txn.Price = in.Price
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		msg := &models.TransactionMessage{
			TransactionID: txn.TransactionID,
			SenderID:      buyerID,
			Body:          message,
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return applyItemAvailability(tx, txn, models.StatusPending)
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.load(ctx, txn.TransactionID)
}

// Get returns a transaction visible to actorID (buyer or seller only).
func (s *Service) Get(ctx context.Context, actorID, transactionID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.DB.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("transaction_id = ? AND (buyer_id = ? OR seller_id = ?)", transactionID, actorID, actorID).
		First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Transaction not found or not authorized")
		}
		return nil, apperr.Internal(err)
	}
	return &txn, nil
}

// List roles.
const (
	RoleBuying  = "buying"
	RoleSelling = "selling"
	RoleTrading = "trading"
)

type ListInput struct {
	Status string
	Role   string
	Page   pagination.Params
}

// List returns the actor's transactions, newest activity first.
func (s *Service) List(ctx context.Context, actorID uuid.UUID, in ListInput) ([]models.Transaction, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Transaction{})

	switch in.Role {
	case RoleBuying:
		q = q.Where("buyer_id = ?", actorID)
	case RoleSelling:
		q = q.Where("seller_id = ?", actorID)
	case RoleTrading:
		q = q.Where("is_trade = ? AND (buyer_id = ? OR seller_id = ?)", true, actorID, actorID)
	case "":
		q = q.Where("buyer_id = ? OR seller_id = ?", actorID, actorID)
	default:
		return nil, 0, apperr.InvalidArgument("Invalid role filter")
	}
	if in.Status != "" {
		q = q.Where("status = ?", in.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var txns []models.Transaction
	err := q.Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("updated_at DESC").
		Offset(in.Page.Offset()).Limit(in.Page.Limit).
		Find(&txns).Error
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return txns, total, nil
}

type ApplyInput struct {
	Action         string
	Message        string
	MeetingDetails *models.MeetingDetails
}

// Apply validates and applies one update to a live transaction: an action
// from the transition table, a message append, or both. The status change
// uses a compare-and-swap on the expected prior status, and the item
// availability writes ride in the same database transaction, so concurrent
// actors cannot interleave a partial update.
func (s *Service) Apply(ctx context.Context, actorID, transactionID uuid.UUID, in ApplyInput) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.DB.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Transaction not found")
		}
		return nil, apperr.Internal(err)
	}
	if txn.BuyerID != actorID && txn.SellerID != actorID {
		return nil, apperr.Forbidden("Not a party to this transaction")
	}
	if in.Action == "" && in.Message == "" {
		return nil, apperr.InvalidArgument("Nothing to update: provide an action or a message")
	}
	if models.IsTerminal(txn.Status) {
		return nil, apperr.Conflict(fmt.Sprintf("Transaction is already %s", txn.Status))
	}

	var nextStatus string
	var meetingJSON datatypes.JSON
	if in.Action != "" {
		requiredRole, known := actionRoles[in.Action]
		if !known {
			return nil, apperr.InvalidArgument("Unknown action")
		}
		switch requiredRole {
		case roleSeller:
			if txn.SellerID != actorID {
				return nil, apperr.Forbidden(fmt.Sprintf("Only the seller can %s the transaction", in.Action))
			}
		case roleBuyer:
			if txn.BuyerID != actorID {
				return nil, apperr.Forbidden(fmt.Sprintf("Only the buyer can %s the transaction", in.Action))
			}
		}
		next, allowed := transitions[txn.Status][in.Action]
		if !allowed {
			return nil, apperr.Conflict(fmt.Sprintf("Cannot %s a %s transaction", in.Action, txn.Status))
		}
		nextStatus = next

		if in.Action == ActionAccept {
			if in.MeetingDetails == nil || in.MeetingDetails.Location == "" || in.MeetingDetails.Date.IsZero() {
				return nil, apperr.InvalidArgument("Meeting details with date and location are required to accept")
			}
			b, err := json.Marshal(in.MeetingDetails)
			if err != nil {
				return nil, apperr.Internal(err)
			}
			meetingJSON = datatypes.JSON(b)
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if nextStatus != "" {
			updates := map[string]interface{}{"status": nextStatus}
			if meetingJSON != nil {
				updates["meeting_details"] = meetingJSON
			}
			res := tx.Model(&models.Transaction{}).
				Where("transaction_id = ? AND status = ?", transactionID, txn.Status).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Conflict("Transaction was updated concurrently")
			}
			if err := applyItemAvailability(tx, &txn, nextStatus); err != nil {
				return err
			}
		}
		if in.Message != "" {
			msg := &models.TransactionMessage{
				TransactionID: transactionID,
				SenderID:      actorID,
				Body:          in.Message,
			}
			if err := tx.Create(msg).Error; err != nil {
				return err
			}
			if nextStatus == "" {
				// Message-only update still bumps activity ordering.
				if err := tx.Model(&models.Transaction{}).
					Where("transaction_id = ?", transactionID).
					Update("updated_at", time.Now()).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if e := apperr.As(err); e != nil {
			return nil, e
		}
		return nil, apperr.Internal(err)
	}
	return s.load(ctx, transactionID)
}

// applyItemAvailability recomputes the referenced item(s)' availability from
// the transaction's new status. Both writes happen inside the caller's
// database transaction.
func applyItemAvailability(tx *gorm.DB, txn *models.Transaction, status string) error {
	availability := availabilityForStatus(status)
	ids := []uuid.UUID{txn.ItemID}
	if txn.TradedItemID != nil {
		ids = append(ids, *txn.TradedItemID)
	}
	return tx.Model(&models.Item{}).
		Where("item_id IN ?", ids).
		Update("availability", availability).Error
}

func (s *Service) load(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.DB.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("transaction_id = ?", transactionID).
		First(&txn).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &txn, nil
}
