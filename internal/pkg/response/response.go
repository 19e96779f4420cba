// Package response renders the standard JSON envelope:
// {success, message?, data?, pagination?}.
package response

import (
	"campusxchange-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// Pagination is the read-side page descriptor attached to list responses.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Limit      int   `json:"limit"`
}

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Success sends 200 with data.
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(SuccessBody{Success: true, Data: data})
}

// SuccessMessage sends 200 with a message and optional data.
func SuccessMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(SuccessBody{Success: true, Message: message, Data: data})
}

// SuccessCreated sends 201 with data.
func SuccessCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(SuccessBody{Success: true, Data: data})
}

// Paginated sends 200 with data and pagination metadata.
func Paginated(c *fiber.Ctx, data interface{}, p Pagination) error {
	return c.Status(fiber.StatusOK).JSON(SuccessBody{Success: true, Data: data, Pagination: &p})
}

// Error sends an error envelope with the given status.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return c.Status(statusCode).JSON(ErrorBody{Success: false, Message: message})
}

// Unauthorized sends 401 with the standard error envelope.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized)
}

// FromError renders a service error. apperr codes map to their HTTP status;
// anything else is a suppressed 500.
func FromError(c *fiber.Ctx, err error) error {
	if e := apperr.As(err); e != nil {
		return Error(c, e.Message, apperr.HTTPStatus(e.Code))
	}
	return Error(c, "Internal Server Error", fiber.StatusInternalServerError)
}
