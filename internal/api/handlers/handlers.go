package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// authedUserID reads the identity the auth middleware stored. Routes behind
// AuthMiddleware always have it.
func authedUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("user_id").(string)
	return uuid.Parse(raw)
}

// viewerID resolves the identity on optional-auth routes: uuid.Nil stands
// for an anonymous viewer.
func viewerID(c *fiber.Ctx) uuid.UUID {
	raw, _ := c.Locals("user_id").(string)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func pagination(c *fiber.Ctx) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}

func paginated(items any, page, limit int, count int64) fiber.Map {
	return fiber.Map{
		"results": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}
}
