package items

import (
	"campusxchange-backend/internal/middleware"
	"campusxchange-backend/internal/pkg/pagination"
	"campusxchange-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type itemBody struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Categories   []string `json:"categories"`
	Condition    *string  `json:"condition"`
	Type         *string  `json:"type"`
	Availability *string  `json:"availability"`
	Price        *float64 `json:"price"`
	Images       []string `json:"images"`
	Tags         []string `json:"tags"`
}

// CreateItem POST /api/v1/items
func (h *Handlers) CreateItem(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body itemBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	in := CreateItemInput{
		Categories: body.Categories,
		Price:      body.Price,
		Images:     body.Images,
		Tags:       body.Tags,
	}
	if body.Title != nil {
		in.Title = *body.Title
	}
	if body.Description != nil {
		in.Description = *body.Description
	}
	if body.Condition != nil {
		in.Condition = *body.Condition
	}
	if body.Type != nil {
		in.Type = *body.Type
	}
	item, err := h.Service.CreateItem(c.Context(), actorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, item)
}

// GetItems GET /api/v1/items — filtered, paginated search.
func (h *Handlers) GetItems(c *fiber.Ctx) error {
	in := FindItemsInput{
		Category:     c.Query("category"),
		Condition:    c.Query("condition"),
		Type:         c.Query("type"),
		Availability: c.Query("availability"),
		Search:       c.Query("search"),
		Sort:         c.Query("sort"),
		Page:         pagination.FromQueryDefault(c, 20),
	}
	if v := c.QueryFloat("minPrice", -1); v >= 0 {
		in.MinPrice = &v
	}
	if v := c.QueryFloat("maxPrice", -1); v >= 0 {
		in.MaxPrice = &v
	}

	items, total, err := h.Service.FindItems(c.Context(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, items, response.Pagination{
		Total:      total,
		Page:       in.Page.Page,
		TotalPages: in.Page.TotalPages(total),
		Limit:      in.Page.Limit,
	})
}

// GetItem GET /api/v1/items/:item_id
func (h *Handlers) GetItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id format", fiber.StatusBadRequest)
	}
	item, err := h.Service.GetItem(c.Context(), itemID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, item)
}

// UpdateItem PUT /api/v1/items/:item_id — owner only, allow-listed fields.
func (h *Handlers) UpdateItem(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id format", fiber.StatusBadRequest)
	}
	var body itemBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	item, err := h.Service.UpdateItem(c.Context(), actorID, itemID, UpdateItemInput{
		Title:        body.Title,
		Description:  body.Description,
		Categories:   body.Categories,
		Condition:    body.Condition,
		Type:         body.Type,
		Availability: body.Availability,
		Price:        body.Price,
		Images:       body.Images,
		Tags:         body.Tags,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, item)
}

// DeleteItem DELETE /api/v1/items/:item_id — owner only.
func (h *Handlers) DeleteItem(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id format", fiber.StatusBadRequest)
	}
	if err := h.Service.DeleteItem(c.Context(), actorID, itemID); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessMessage(c, "Item deleted successfully", nil)
}
