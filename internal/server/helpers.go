package server

import (
	"fmt"
	"strconv"

	"driftboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// currentUserID reads the authenticated user id set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// optionalUserID reads the viewer id set by OptionalAuth; 0 means anonymous.
func optionalUserID(c *fiber.Ctx) uint {
	return currentUserID(c)
}

// viewerKey identifies a viewer for view deduplication: the user id when
// authenticated, the client address otherwise.
func viewerKey(c *fiber.Ctx) string {
	if id := optionalUserID(c); id != 0 {
		return fmt.Sprintf("user:%d", id)
	}
	return "ip:" + c.IP()
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError(fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), nil
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 0)
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// fail renders a service error with its mapped status code.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}
