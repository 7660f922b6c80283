package web

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "ecal/internal/log"
	"ecal/internal/store"
)

// errorResponse is the JSON error body used by all handlers.
type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msg})
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: what + " not found"})
}

// storeError maps store failures onto HTTP responses: ErrNotFound
// becomes 404, anything else a logged 500.
func storeError(c *fiber.Ctx, what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, what)
	}
	applog.Error("store operation failed", err, "what", what, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal error"})
}

// paramID parses a numeric path parameter. Non-numeric ids do not
// resolve to any resource.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// queryTime parses an optional RFC3339 (or date-only) query parameter.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	return &t, nil
}

// queryFloat parses an optional float query parameter; a malformed
// value counts as absent.
func queryFloat(c *fiber.Ctx, name string) *float64 {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
