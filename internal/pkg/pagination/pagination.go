// Package pagination parses page/limit query parameters shared by all list
// endpoints. totalPages = ceil(total/limit).
package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds a parsed page request.
type Params struct {
	Page  int
	Limit int
}

// FromQuery reads page and limit from the request, clamping to sane bounds.
func FromQuery(c *fiber.Ctx) Params {
	return FromQueryDefault(c, DefaultLimit)
}

// FromQueryDefault is FromQuery with a caller-chosen default limit.
func FromQueryDefault(c *fiber.Ctx, defaultLimit int) Params {
	page, err := strconv.Atoi(c.Query("page", strconv.Itoa(DefaultPage)))
	if err != nil || page <= 0 {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset is the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages computes ceil(total/limit).
func (p Params) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
