package web

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ecal/internal/ics"
	"ecal/internal/model"
	"ecal/internal/store"
)

type eventCreateRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day"`
	Recurrence  *string   `json:"recurrence"`
	CategoryID  *uint     `json:"category_id"`
}

// listEvents returns events ordered by start, optionally restricted to
// those overlapping the start/end window.
func (s *Server) listEvents(c *fiber.Ctx) error {
	filter, err := eventFilterFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	events, err := s.store.ListEvents(c.Context(), filter)
	if err != nil {
		return storeError(c, "events", err)
	}
	return c.JSON(events)
}

func (s *Server) createEvent(c *fiber.Ctx) error {
	var req eventCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return badRequest(c, "start and end are required")
	}

	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		AllDay:      req.AllDay,
		Recurrence:  req.Recurrence,
		CategoryID:  req.CategoryID,
	}
	if err := s.store.CreateEvent(c.Context(), event); err != nil {
		return storeError(c, "event", err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (s *Server) getEvent(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "event")
	}
	event, err := s.store.GetEvent(c.Context(), id)
	if err != nil {
		return storeError(c, "event", err)
	}
	return c.JSON(event)
}

func (s *Server) updateEvent(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "event")
	}

	var upd store.EventUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	event, err := s.store.UpdateEvent(c.Context(), id, upd)
	if err != nil {
		return storeError(c, "event", err)
	}
	return c.JSON(event)
}

func (s *Server) deleteEvent(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "event")
	}
	if err := s.store.DeleteEvent(c.Context(), id); err != nil {
		return storeError(c, "event", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// exportEvents serves the stored events as an iCalendar feed.
func (s *Server) exportEvents(c *fiber.Ctx) error {
	filter, err := eventFilterFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	events, err := s.store.ListEvents(c.Context(), filter)
	if err != nil {
		return storeError(c, "events", err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.SendString(ics.Export(events))
}

// listOccurrences expands an event's recurrence rule inside a window.
// The window defaults to the coming 30 days.
func (s *Server) listOccurrences(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "event")
	}
	event, err := s.store.GetEvent(c.Context(), id)
	if err != nil {
		return storeError(c, "event", err)
	}

	start, err := queryTime(c, "start")
	if err != nil {
		return badRequest(c, err.Error())
	}
	end, err := queryTime(c, "end")
	if err != nil {
		return badRequest(c, err.Error())
	}

	rangeStart := time.Now().UTC()
	if start != nil {
		rangeStart = *start
	}
	rangeEnd := rangeStart.AddDate(0, 0, 30)
	if end != nil {
		rangeEnd = *end
	}

	occurrences, err := ics.Expand(*event, rangeStart, rangeEnd, 0)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(occurrences)
}

func eventFilterFromQuery(c *fiber.Ctx) (store.EventFilter, error) {
	var filter store.EventFilter

	start, err := queryTime(c, "start")
	if err != nil {
		return filter, err
	}
	end, err := queryTime(c, "end")
	if err != nil {
		return filter, err
	}

	filter.Start = start
	filter.End = end
	return filter, nil
}
