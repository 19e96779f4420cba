package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Transaction statuses. Rejected, completed and cancelled are terminal:
// no further transitions or message appends are accepted.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Transaction is one negotiation between a buyer and a seller over an item.
// For trades, TradedItemID references a second item owned by the buyer and
// Price is null; for sales Price is set and TradedItemID is null.
type Transaction struct {
	TransactionID  uuid.UUID            `gorm:"column:transaction_id;type:uuid;primaryKey" json:"transaction_id"`
	ItemID         uuid.UUID            `gorm:"column:item_id;type:uuid;not null;index:idx_transactions_item_status" json:"item_id"`
	SellerID       uuid.UUID            `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	BuyerID        uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	TradedItemID   *uuid.UUID           `gorm:"column:traded_item_id;type:uuid" json:"traded_item_id"`
	Status         string               `gorm:"column:status;type:varchar(20);default:'pending';index:idx_transactions_item_status" json:"status"`
	IsTrade        bool                 `gorm:"column:is_trade;not null;default:false" json:"is_trade"`
	Price          *float64             `gorm:"column:price;type:decimal(18,2)" json:"price"`
	MeetingDetails datatypes.JSON       `gorm:"column:meeting_details;type:json" json:"meeting_details"`
	Messages       []TransactionMessage `gorm:"foreignKey:TransactionID;references:TransactionID" json:"messages"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TransactionID == uuid.Nil {
		t.TransactionID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether status permits no further transitions.
func IsTerminal(status string) bool {
	return status == StatusRejected || status == StatusCompleted || status == StatusCancelled
}

// TransactionMessage is one line of the in-transaction negotiation thread.
type TransactionMessage struct {
	MessageID     uuid.UUID `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;not null;index" json:"transaction_id"`
	SenderID      uuid.UUID `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	Body          string    `gorm:"column:body;not null" json:"body"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (m *TransactionMessage) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}

// MeetingDetails is the payload stored in Transaction.MeetingDetails when a
// seller accepts. Date and location are required at accept time.
type MeetingDetails struct {
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Notes    string    `json:"notes,omitempty"`
}
