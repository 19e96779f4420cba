package middleware

import (
	"campusxchange-backend/internal/pkg/apperr"
	"campusxchange-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global Fiber error handler. apperr values and
// fiber.Errors keep their status; anything else is a suppressed 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e := apperr.As(err); e != nil {
		if e.Code == apperr.CodeInternal {
			log.Error().Err(e.Err).Str("request_id", RequestID(c)).Str("path", c.Path()).Msg("unhandled service error")
		}
		return response.Error(c, e.Message, apperr.HTTPStatus(e.Code))
	}
	if e, ok := err.(*fiber.Error); ok {
		return response.Error(c, e.Message, e.Code)
	}
	log.Error().Err(err).Str("request_id", RequestID(c)).Str("path", c.Path()).Msg("unhandled error")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
}
