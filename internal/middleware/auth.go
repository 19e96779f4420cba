package middleware

import (
	"campusxchange-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with the standard
// error envelope if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Not authenticated")
		}
		return c.Next()
	}
}

// GetUser returns the session user map from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// ActorID resolves the authenticated user's id from the session. Handlers
// behind RequireAuth can rely on ok being true.
func ActorID(c *fiber.Ctx) (uuid.UUID, bool) {
	m, _ := c.Locals(userLocal).(map[string]interface{})
	if m == nil {
		return uuid.Nil, false
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
