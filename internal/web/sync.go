package web

import (
	"github.com/gofiber/fiber/v2"

	applog "ecal/internal/log"
	"ecal/internal/sync"
)

// runCalDAVSync triggers a one-way import from a CalDAV server. A
// connection-level failure is a client error carrying the underlying
// message; per-item failures come back in the result's error list.
func (s *Server) runCalDAVSync(c *fiber.Ctx) error {
	var acct sync.Account
	if err := c.BodyParser(&acct); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := s.importer.Run(c.Context(), acct)
	if err != nil {
		applog.Error("caldav sync failed", err, "url", acct.URL)
		return badRequest(c, "CalDAV sync failed: "+err.Error())
	}
	return c.JSON(result)
}
