package messaging

import (
	"context"
	"strings"

	"campusxchange-backend/internal/models"
	"campusxchange-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// OpenConversation returns the thread between the actor and recipient about
// an item, creating it on first contact. The (item, pair) thread is unique
// regardless of who opened it.
func (s *Service) OpenConversation(ctx context.Context, actorID, itemID, recipientID uuid.UUID) (*models.Conversation, error) {
	if actorID == recipientID {
		return nil, apperr.InvalidArgument("Cannot start a conversation with yourself")
	}
	var item models.Item
	if err := s.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Item not found")
		}
		return nil, apperr.Internal(err)
	}

	var conv models.Conversation
	err := s.DB.WithContext(ctx).
		Where("item_id = ? AND ((starter_id = ? AND recipient_id = ?) OR (starter_id = ? AND recipient_id = ?))",
			itemID, actorID, recipientID, recipientID, actorID).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperr.Internal(err)
	}

	conv = models.Conversation{
		ItemID:      itemID,
		StarterID:   actorID,
		RecipientID: recipientID,
	}
	if err := s.DB.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &conv, nil
}

// ListConversations returns the actor's threads, most recent activity first.
func (s *Service) ListConversations(ctx context.Context, actorID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.DB.WithContext(ctx).
		Where("starter_id = ? OR recipient_id = ?", actorID, actorID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return convs, nil
}

func (s *Service) conversationFor(ctx context.Context, actorID, conversationID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.DB.WithContext(ctx).Where("conversation_id = ?", conversationID).First(&conv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Conversation not found")
		}
		return nil, apperr.Internal(err)
	}
	if !conv.HasParticipant(actorID) {
		return nil, apperr.Forbidden("Not a participant in this conversation")
	}
	return &conv, nil
}

// GetMessages returns a thread's messages in chronological order.
func (s *Service) GetMessages(ctx context.Context, actorID, conversationID uuid.UUID) ([]models.Message, error) {
	if _, err := s.conversationFor(ctx, actorID, conversationID); err != nil {
		return nil, err
	}
	var msgs []models.Message
	err := s.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return msgs, nil
}

// SendMessage appends to a thread and refreshes the preview on the
// conversation. Messages start unread for the recipient.
func (s *Service) SendMessage(ctx context.Context, actorID, conversationID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("Message content is required")
	}
	conv, err := s.conversationFor(ctx, actorID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       actorID,
		Content:        content,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(conv).Update("last_message", content).Error
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return msg, nil
}

// MarkRead marks every message from the other participant as read.
func (s *Service) MarkRead(ctx context.Context, actorID, conversationID uuid.UUID) error {
	if _, err := s.conversationFor(ctx, actorID, conversationID); err != nil {
		return err
	}
	err := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, actorID, false).
		Update("read", true).Error
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// UnreadCount counts messages addressed to the actor that they have not read
// across all their conversations. Powers the client's unread poll.
func (s *Service) UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	sub := s.DB.Model(&models.Conversation{}).
		Select("conversation_id").
		Where("starter_id = ? OR recipient_id = ?", actorID, actorID)

	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id IN (?) AND sender_id <> ? AND read = ?", sub, actorID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}
