package reviews

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

// CreateReview POST /api/v1/reviews
func (h *Handlers) CreateReview(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		TransactionID string `json:"transactionId"`
		Rating        int    `json:"rating"`
		Comment       string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	if body.TransactionID == "" || body.Rating == 0 {
		return response.Error(c, "Transaction ID and rating are required", fiber.StatusBadRequest)
	}
	transactionID, err := uuid.Parse(body.TransactionID)
	if err != nil {
		return response.Error(c, "Invalid transactionId format", fiber.StatusBadRequest)
	}
	review, err := h.Service.Submit(c.Context(), actorID, SubmitInput{
		TransactionID: transactionID,
		Rating:        body.Rating,
		Comment:       body.Comment,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, review)
}

// GetReviews GET /api/v1/reviews?userId= — reviews about a user plus their
// computed average rating.
func (h *Handlers) GetReviews(c *fiber.Ctx) error {
	userIDStr := c.Query("userId")
	if userIDStr == "" {
		return response.Error(c, "User ID is required", fiber.StatusBadRequest)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return response.Error(c, "Invalid userId format", fiber.StatusBadRequest)
	}
	page := pagination.FromQuery(c)
	data, total, err := h.Service.ListForUser(c.Context(), userID, page)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Paginated(c, data, response.Pagination{
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
		Limit:      page.Limit,
	})
}
