package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, url string) Params {
	t.Helper()
	var got Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = FromQuery(c)
		return nil
	})
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	return got
}

func TestFromQuery(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 10}, parse(t, "/"))
	assert.Equal(t, Params{Page: 3, Limit: 25}, parse(t, "/?page=3&limit=25"))
	// garbage and out-of-range values fall back
	assert.Equal(t, Params{Page: 1, Limit: 10}, parse(t, "/?page=zero&limit=-4"))
	assert.Equal(t, Params{Page: 1, Limit: MaxLimit}, parse(t, "/?limit=5000"))
}

func TestOffsetAndTotalPages(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
	assert.Equal(t, 5, p.TotalPages(41))
}
