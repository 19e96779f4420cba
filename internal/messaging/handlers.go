package messaging

import (
	"campusxchange-backend/internal/middleware"
	"campusxchange-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// ListConversations GET /api/v1/messages
func (h *Handlers) ListConversations(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	convs, err := h.Service.ListConversations(c.Context(), actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, convs)
}

// OpenConversation POST /api/v1/messages/conversation — create or fetch the
// thread for (item, recipient).
func (h *Handlers) OpenConversation(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		ItemID      string `json:"itemId"`
		RecipientID string `json:"recipientId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	if body.ItemID == "" || body.RecipientID == "" {
		return response.Error(c, "Item ID and recipient ID are required", fiber.StatusBadRequest)
	}
	itemID, err := uuid.Parse(body.ItemID)
	if err != nil {
		return response.Error(c, "Invalid itemId format", fiber.StatusBadRequest)
	}
	recipientID, err := uuid.Parse(body.RecipientID)
	if err != nil {
		return response.Error(c, "Invalid recipientId format", fiber.StatusBadRequest)
	}
	conv, err := h.Service.OpenConversation(c.Context(), actorID, itemID, recipientID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, conv)
}

// GetMessages GET /api/v1/messages/conversation?conversationId=
func (h *Handlers) GetMessages(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	conversationID, err := uuid.Parse(c.Query("conversationId"))
	if err != nil {
		return response.Error(c, "Conversation ID is required", fiber.StatusBadRequest)
	}
	msgs, err := h.Service.GetMessages(c.Context(), actorID, conversationID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, msgs)
}

// SendMessage POST /api/v1/messages/send
func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		ConversationID string `json:"conversationId"`
		Content        string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	if body.ConversationID == "" || body.Content == "" {
		return response.Error(c, "Conversation ID and content are required", fiber.StatusBadRequest)
	}
	conversationID, err := uuid.Parse(body.ConversationID)
	if err != nil {
		return response.Error(c, "Invalid conversationId format", fiber.StatusBadRequest)
	}
	msg, err := h.Service.SendMessage(c.Context(), actorID, conversationID, body.Content)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, msg)
}

// MarkRead PUT /api/v1/messages/send — mark the other party's messages read.
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		ConversationID string `json:"conversationId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	conversationID, err := uuid.Parse(body.ConversationID)
	if err != nil {
		return response.Error(c, "Conversation ID is required", fiber.StatusBadRequest)
	}
	if err := h.Service.MarkRead(c.Context(), actorID, conversationID); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessMessage(c, "Messages marked as read", nil)
}

// UnreadCount GET /api/v1/messages/unread
func (h *Handlers) UnreadCount(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	count, err := h.Service.UnreadCount(c.Context(), actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"count": count})
}
