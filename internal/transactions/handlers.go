package transactions

import (
	"campusxchange-backend/internal/middleware"
	"campusxchange-backend/internal/models"
	"campusxchange-backend/internal/pkg/pagination"
	"campusxchange-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CreateTransaction POST /api/v1/transactions
func (h *Handlers) CreateTransaction(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		ItemID       string   `json:"itemId"`
		Message      string   `json:"message"`
		IsTrade      bool     `json:"isTrade"`
		TradedItemID string   `json:"tradedItemId"`
		Price        *float64 `json:"price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	if body.ItemID == "" {
		return response.Error(c, "Item ID is required", fiber.StatusBadRequest)
	}
	itemID, err := uuid.Parse(body.ItemID)
	if err != nil {
		return response.Error(c, "Invalid itemId format", fiber.StatusBadRequest)
	}
	in := CreateInput{
		ItemID:  itemID,
		Message: body.Message,
		IsTrade: body.IsTrade,
		Price:   body.Price,
	}
	if body.TradedItemID != "" {
		tradedID, err := uuid.Parse(body.TradedItemID)
		if err != nil {
			return response.Error(c, "Invalid tradedItemId format", fiber.StatusBadRequest)
		}
		in.TradedItemID = &tradedID
	}
	txn, err := h.Service.Create(c.Context(), actorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, txn)
}

// GetTransactions GET /api/v1/transactions?status=&type=buying|selling|trading
func (h *Handlers) GetTransactions(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	in := ListInput{
		Status: c.Query("status"),
		Role:   c.Query("type"),
		Page:   pagination.FromQuery(c),
	}
	txns, total, err := h.Service.List(c.Context(), actorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, txns, response.Pagination{
		Total:      total,
		Page:       in.Page.Page,
		TotalPages: in.Page.TotalPages(total),
		Limit:      in.Page.Limit,
	})
}

// GetTransaction GET /api/v1/transactions/:transaction_id
func (h *Handlers) GetTransaction(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	transactionID, err := uuid.Parse(c.Params("transaction_id"))
	if err != nil {
		return response.Error(c, "Invalid transaction_id format", fiber.StatusBadRequest)
	}
	txn, err := h.Service.Get(c.Context(), actorID, transactionID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, txn)
}

// UpdateTransaction PUT /api/v1/transactions/:transaction_id — applies an
// action and/or appends a message.
func (h *Handlers) UpdateTransaction(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	transactionID, err := uuid.Parse(c.Params("transaction_id"))
	if err != nil {
		return response.Error(c, "Invalid transaction_id format", fiber.StatusBadRequest)
	}
	var body struct {
		Action         string                 `json:"action"`
		Message        string                 `json:"message"`
		MeetingDetails *models.MeetingDetails `json:"meetingDetails"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	txn, err := h.Service.Apply(c.Context(), actorID, transactionID, ApplyInput{
		Action:         body.Action,
		Message:        body.Message,
		MeetingDetails: body.MeetingDetails,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, txn)
}
