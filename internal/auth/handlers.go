package auth

import (
	"context"

	"campusxchange-backend/internal/middleware"
	"campusxchange-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Register POST /api/v1/auth/register — create account, then log it in.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Campus   string `json:"campus"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	user, err := h.Service.Register(c.Context(), RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Campus:   body.Campus,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	h.startSession(c, user.UserID.String(), user.Name, user.Email)
	return response.SuccessCreated(c, user)
}

// Login POST /api/v1/auth/login — authenticate, regenerate session, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest)
	}
	user, err := h.Service.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	h.startSession(c, user.UserID.String(), user.Name, user.Email)
	return response.SuccessMessage(c, "Login successful", user)
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, user)
}

// Logout DELETE /api/v1/auth/logout — destroy session serverside and clear cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	actorID, _ := middleware.ActorID(c)

	if sessionID != "" && h.Rdb != nil {
		ctx := context.Background()
		h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID)
		if actorID != uuid.Nil {
			h.Rdb.SRem(ctx, userSessionsPrefix+actorID.String(), sessionID)
		}
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)
	return response.SuccessMessage(c, "Logged out", nil)
}

// startSession regenerates the session id, stores the user in the session,
// tracks the session id against the user in Redis, and sets the cookie.
func (h *Handlers) startSession(c *fiber.Ctx, userID, name, email string) {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID: userID,
		Name:   name,
		Email:  email,
	})
	if h.Rdb != nil {
		h.Rdb.SAdd(context.Background(), userSessionsPrefix+userID, sessionID)
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)
}
