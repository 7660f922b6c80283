package web

import (
	"github.com/gofiber/fiber/v2"

	"ecal/internal/model"
	"ecal/internal/store"
)

type calendarSyncCreateRequest struct {
	Name     string  `json:"name"`
	Source   string  `json:"source"`
	URL      *string `json:"url"`
	Username *string `json:"username"`
	Token    *string `json:"token"`
	Enabled  *bool   `json:"enabled"`
}

func (s *Server) listCalendarSyncs(c *fiber.Ctx) error {
	syncs, err := s.store.ListCalendarSyncs(c.Context())
	if err != nil {
		return storeError(c, "calendar syncs", err)
	}
	return c.JSON(syncs)
}

func (s *Server) createCalendarSync(c *fiber.Ctx) error {
	var req calendarSyncCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	if req.Source == "" {
		req.Source = model.SourceCalDAV
	}

	cs := &model.CalendarSync{
		Name:     req.Name,
		Source:   req.Source,
		URL:      req.URL,
		Username: req.Username,
		Token:    req.Token,
		Enabled:  true,
	}
	if req.Enabled != nil {
		cs.Enabled = *req.Enabled
	}

	if err := s.store.CreateCalendarSync(c.Context(), cs); err != nil {
		return storeError(c, "calendar sync", err)
	}
	return c.Status(fiber.StatusCreated).JSON(cs)
}

func (s *Server) getCalendarSync(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "calendar sync")
	}
	cs, err := s.store.GetCalendarSync(c.Context(), id)
	if err != nil {
		return storeError(c, "calendar sync", err)
	}
	return c.JSON(cs)
}

func (s *Server) updateCalendarSync(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "calendar sync")
	}

	var upd store.CalendarSyncUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	cs, err := s.store.UpdateCalendarSync(c.Context(), id, upd)
	if err != nil {
		return storeError(c, "calendar sync", err)
	}
	return c.JSON(cs)
}

func (s *Server) deleteCalendarSync(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "calendar sync")
	}
	if err := s.store.DeleteCalendarSync(c.Context(), id); err != nil {
		return storeError(c, "calendar sync", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
