package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a pre-negotiation chat thread between two users about one
// item. Exactly one conversation exists per (item, participant pair); it is
// created lazily on first contact and never deleted.
type Conversation struct {
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:uuid;primaryKey" json:"conversation_id"`
	ItemID         uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_conversations_item_pair" json:"item_id"`
	StarterID      uuid.UUID `gorm:"column:starter_id;type:uuid;not null;uniqueIndex:idx_conversations_item_pair" json:"starter_id"`
	RecipientID    uuid.UUID `gorm:"column:recipient_id;type:uuid;not null;uniqueIndex:idx_conversations_item_pair" json:"recipient_id"`
	LastMessage    string    `gorm:"column:last_message" json:"last_message"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ConversationID == uuid.Nil {
		c.ConversationID = uuid.New()
	}
	return nil
}

// HasParticipant reports whether userID is one of the two parties.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.StarterID == userID || c.RecipientID == userID
}

// Message is one timestamped entry in a conversation. Read tracks whether the
// recipient (the non-sender participant) has seen it; messages are born read
// from the sender's perspective.
type Message struct {
	MessageID      uuid.UUID `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	Content        string    `gorm:"column:content;not null" json:"content"`
	Read           bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
