package profile

import (
	itemsvc "campusxchange-backend/internal/items"
	"campusxchange-backend/internal/middleware"
	"campusxchange-backend/internal/pkg/pagination"
	"campusxchange-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
	Items   *itemsvc.Service
}

// ViewUser GET /api/v1/profile/:user_id — public profile with derived rating.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid user_id format", fiber.StatusBadRequest)
	}
	p, err := h.Service.ViewUser(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, p)
}

// MyItems GET /api/v1/profile/items — the caller's own listings, every
// availability, newest first.
func (h *Handlers) MyItems(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	page := pagination.FromQuery(c)
	items, total, err := h.Items.ListOwned(c.Context(), actorID, page)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, items, response.Pagination{
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
		Limit:      page.Limit,
	})
}

// Stats GET /api/v1/profile/stats — the caller's listing counts.
func (h *Handlers) Stats(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	stats, err := h.Items.Stats(c.Context(), actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, stats)
}
