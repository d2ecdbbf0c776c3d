package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/conversation-service/internal/repository"
)

// parseBody decodes a JSON request body leniently: an unparsable body is
// treated as an empty object, so required-field checks downstream govern
// behavior. Callers rely on partial and empty bodies being tolerated; do
// not upgrade this to an error without changing the error contract.
func parseBody(c *fiber.Ctx, out any) {
	body := c.Body()
	if len(body) == 0 {
		return
	}
	_ = json.Unmarshal(body, out)
}

func respondData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func respondList(c *fiber.Ctx, data any, page repository.Page, total int) error {
	number, size := page.Normalize()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"page":       number,
			"pageSize":   size,
			"totalItems": total,
		},
	})
}

func parsePage(c *fiber.Ctx) repository.Page {
	return repository.Page{
		Number: parseInt(c.Query("page"), 1),
		Size:   parseInt(c.Query("pageSize"), 20),
	}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// splitCSV parses comma-separated query values into a trimmed set.
func splitCSV(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
