package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog_AssignsID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLog())
	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = RequestID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	echoed := resp.Header.Get("X-Request-Id")
	assert.Equal(t, seen, echoed)
	_, err = uuid.Parse(echoed)
	assert.NoError(t, err)
}

func TestRequestLog_HonorsInboundID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLog())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-Id", "edge-7f2a")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "edge-7f2a", resp.Header.Get("X-Request-Id"))
}
