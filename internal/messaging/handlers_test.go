package messaging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusxchange-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMessagingTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Item{},
		&models.Conversation{}, &models.Message{},
	))

	h := &Handlers{Service: &Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-Test-User"); id != "" {
			c.Locals("user", map[string]interface{}{"user_id": id})
		}
		return c.Next()
	})
	app.Get("/messages", h.ListConversations)
	app.Post("/messages/conversation", h.OpenConversation)
	app.Get("/messages/conversation", h.GetMessages)
	app.Post("/messages/send", h.SendMessage)
	app.Put("/messages/send", h.MarkRead)
	app.Get("/messages/unread", h.UnreadCount)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@campus.test", PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u.UserID
}

func createItem(t *testing.T, db *gorm.DB, owner uuid.UUID) *models.Item {
	t.Helper()
	item := &models.Item{
		Title: "Desk lamp", Description: "Works fine",
		Condition: models.ConditionGood, Type: models.TypeSell,
		Availability: models.AvailabilityAvailable, OwnerID: owner,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func doJSON(t *testing.T, app *fiber.App, method, url string, actor uuid.UUID, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != uuid.Nil {
		req.Header.Set("X-Test-User", actor.String())
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func openConv(t *testing.T, app *fiber.App, actor uuid.UUID, item *models.Item, recipient uuid.UUID) string {
	t.Helper()
	resp, result := doJSON(t, app, "POST", "/messages/conversation", actor, fiber.Map{
		"itemId": item.ItemID.String(), "recipientId": recipient.String(),
	})
	require.Equal(t, 200, resp.StatusCode)
	return result["data"].(map[string]interface{})["conversation_id"].(string)
}

func TestOpenConversation_UniquePerPair(t *testing.T) {
	app, db := setupMessagingTest(t)
	seller := createUser(t, db, "seller")
	buyer := createUser(t, db, "buyer")
	item := createItem(t, db, seller)

	first := openConv(t, app, buyer, item, seller)
	// reopening from either direction returns the same thread
	assert.Equal(t, first, openConv(t, app, buyer, item, seller))
	assert.Equal(t, first, openConv(t, app, seller, item, buyer))

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpenConversation_Validation(t *testing.T) {
	app, db := setupMessagingTest(t)
	seller := createUser(t, db, "seller")
	item := createItem(t, db, seller)

	resp, _ := doJSON(t, app, "POST", "/messages/conversation", seller, fiber.Map{
		"itemId": item.ItemID.String(), "recipientId": seller.String(),
	})
	assert.Equal(t, 400, resp.StatusCode)

	buyer := createUser(t, db, "buyer")
	resp, _ = doJSON(t, app, "POST", "/messages/conversation", buyer, fiber.Map{
		"itemId": uuid.New().String(), "recipientId": seller.String(),
	})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestSendAndReadMessages(t *testing.T) {
	app, db := setupMessagingTest(t)
	seller := createUser(t, db, "seller")
	buyer := createUser(t, db, "buyer")
	item := createItem(t, db, seller)
	convID := openConv(t, app, buyer, item, seller)

	resp, _ := doJSON(t, app, "POST", "/messages/send", buyer, fiber.Map{
		"conversationId": convID, "content": "Is this still available?",
	})
	require.Equal(t, 201, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", "/messages/send", seller, fiber.Map{
		"conversationId": convID, "content": "Yes, pick it up anytime",
	})
	require.Equal(t, 201, resp.StatusCode)

	// whitespace-only content rejected
	resp, _ = doJSON(t, app, "POST", "/messages/send", buyer, fiber.Map{
		"conversationId": convID, "content": "   ",
	})
	assert.Equal(t, 400, resp.StatusCode)

	resp, result := doJSON(t, app, "GET", "/messages/conversation?conversationId="+convID, buyer, nil)
	require.Equal(t, 200, resp.StatusCode)
	msgs := result["data"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "Is this still available?", msgs[0].(map[string]interface{})["content"])

	// last message preview kept on the conversation
	var conv models.Conversation
	require.NoError(t, db.First(&conv).Error)
	assert.Equal(t, "Yes, pick it up anytime", conv.LastMessage)
}

func TestMessages_ParticipantGating(t *testing.T) {
	app, db := setupMessagingTest(t)
	seller := createUser(t, db, "seller")
	buyer := createUser(t, db, "buyer")
	stranger := createUser(t, db, "stranger")
	item := createItem(t, db, seller)
	convID := openConv(t, app, buyer, item, seller)

	resp, _ := doJSON(t, app, "GET", "/messages/conversation?conversationId="+convID, stranger, nil)
	assert.Equal(t, 403, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/messages/send", stranger, fiber.Map{
		"conversationId": convID, "content": "let me in",
	})
	assert.Equal(t, 403, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/messages/conversation?conversationId="+uuid.New().String(), buyer, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	app, db := setupMessagingTest(t)
	seller := createUser(t, db, "seller")
	buyer := createUser(t, db, "buyer")
	item := createItem(t, db, seller)
	convID := openConv(t, app, buyer, item, seller)

	for _, content := range []string{"hi", "still there?"} {
		resp, _ := doJSON(t, app, "POST", "/messages/send", buyer, fiber.Map{
			"conversationId": convID, "content": content,
		})
		require.Equal(t, 201, resp.StatusCode)
	}

	resp, result := doJSON(t, app, "GET", "/messages/unread", seller, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(2), result["data"].(map[string]interface{})["count"])

	// the sender's own messages are not unread for them
	resp, result = doJSON(t, app, "GET", "/messages/unread", buyer, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(0), result["data"].(map[string]interface{})["count"])

	resp, _ = doJSON(t, app, "PUT", "/messages/send", seller, fiber.Map{
		"conversationId": convID,
	})
	require.Equal(t, 200, resp.StatusCode)

	resp, result = doJSON(t, app, "GET", "/messages/unread", seller, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(0), result["data"].(map[string]interface{})["count"])
}

func TestListConversations(t *testing.T) {
	app, db := setupMessagingTest(t)
	seller := createUser(t, db, "seller")
	buyer := createUser(t, db, "buyer")
	other := createUser(t, db, "other")
	item := createItem(t, db, seller)
	openConv(t, app, buyer, item, seller)
	openConv(t, app, other, item, seller)

	resp, result := doJSON(t, app, "GET", "/messages", seller, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, result["data"].([]interface{}), 2)

	resp, result = doJSON(t, app, "GET", "/messages", buyer, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, result["data"].([]interface{}), 1)
}
