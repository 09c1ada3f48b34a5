package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const DefaultPage = 1

type PageParams struct {
	Page    int
	PerPage int
}

// ParsePage reads page/per_page query params with sane caps.
func ParsePage(c *fiber.Ctx, defaultPerPage, maxPerPage int) PageParams {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	perRaw := strings.TrimSpace(c.Query("per_page"))
	per := atoiDefault(perRaw, defaultPerPage)
	if per < 1 {
		per = defaultPerPage
	}
	if per > maxPerPage {
		per = maxPerPage
	}

	return PageParams{Page: page, PerPage: per}
}

func (p PageParams) Offset() int { return (p.Page - 1) * p.PerPage }

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
