package web

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ecal/internal/model"
	"ecal/internal/store"
)

type choreCreateRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Assignee    *string    `json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *uint      `json:"category_id"`
}

// listChores supports the completed, due_before and assignee filters.
func (s *Server) listChores(c *fiber.Ctx) error {
	var filter store.ChoreFilter

	if v := c.Query("completed"); v != "" {
		completed := v == "true" || v == "1"
		filter.Completed = &completed
	}
	dueBefore, err := queryTime(c, "due_before")
	if err != nil {
		return badRequest(c, err.Error())
	}
	filter.DueBefore = dueBefore
	if v := c.Query("assignee"); v != "" {
		filter.Assignee = &v
	}

	chores, err := s.store.ListChores(c.Context(), filter)
	if err != nil {
		return storeError(c, "chores", err)
	}
	return c.JSON(chores)
}

func (s *Server) createChore(c *fiber.Ctx) error {
	var req choreCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}

	chore := &model.Chore{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	}
	if err := s.store.CreateChore(c.Context(), chore); err != nil {
		return storeError(c, "chore", err)
	}
	return c.Status(fiber.StatusCreated).JSON(chore)
}

func (s *Server) getChore(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "chore")
	}
	chore, err := s.store.GetChore(c.Context(), id)
	if err != nil {
		return storeError(c, "chore", err)
	}
	return c.JSON(chore)
}

func (s *Server) updateChore(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "chore")
	}

	var upd store.ChoreUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	chore, err := s.store.UpdateChore(c.Context(), id, upd)
	if err != nil {
		return storeError(c, "chore", err)
	}
	return c.JSON(chore)
}

func (s *Server) deleteChore(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "chore")
	}
	if err := s.store.DeleteChore(c.Context(), id); err != nil {
		return storeError(c, "chore", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
