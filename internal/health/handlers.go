package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// JSON GET /health/json — liveness of the process plus DB and Redis pings.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "not configured"
	if h.DB != nil {
		dbStatus = "ok"
		sqlDB, err := h.DB.DB()
		if err != nil {
			dbStatus = "error: " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "error: " + err.Error()
		}
	}

	redisStatus := "not configured"
	if h.Rdb != nil {
		redisStatus = "ok"
		if err := h.Rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}
	}

	status := fiber.StatusOK
	if dbStatus != "ok" && dbStatus != "not configured" {
		status = fiber.StatusServiceUnavailable
	}
	if redisStatus != "ok" && redisStatus != "not configured" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   "up",
		"database": dbStatus,
		"redis":    redisStatus,
		"time":     time.Now().UTC(),
	})
}
