package web

import (
	"github.com/gofiber/fiber/v2"

	"ecal/internal/model"
	"ecal/internal/store"
)

type todoListCreateRequest struct {
	Title      string  `json:"title"`
	Color      *string `json:"color"`
	CategoryID *uint   `json:"category_id"`
}

type todoItemCreateRequest struct {
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
}

func (s *Server) listTodoLists(c *fiber.Ctx) error {
	lists, err := s.store.ListTodoLists(c.Context())
	if err != nil {
		return storeError(c, "lists", err)
	}
	return c.JSON(lists)
}

func (s *Server) createTodoList(c *fiber.Ctx) error {
	var req todoListCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}

	list := &model.TodoList{
		Title:      req.Title,
		Color:      req.Color,
		CategoryID: req.CategoryID,
	}
	if err := s.store.CreateTodoList(c.Context(), list); err != nil {
		return storeError(c, "list", err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

func (s *Server) getTodoList(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "list")
	}
	list, err := s.store.GetTodoList(c.Context(), id)
	if err != nil {
		return storeError(c, "list", err)
	}
	return c.JSON(list)
}

func (s *Server) updateTodoList(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "list")
	}

	var upd store.TodoListUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	list, err := s.store.UpdateTodoList(c.Context(), id, upd)
	if err != nil {
		return storeError(c, "list", err)
	}
	return c.JSON(list)
}

// deleteTodoList removes a list together with all of its items.
func (s *Server) deleteTodoList(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "list")
	}
	if err := s.store.DeleteTodoList(c.Context(), id); err != nil {
		return storeError(c, "list", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listTodoItems(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "list")
	}
	items, err := s.store.ListTodoItems(c.Context(), id)
	if err != nil {
		return storeError(c, "items", err)
	}
	return c.JSON(items)
}

func (s *Server) createTodoItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "list")
	}

	var req todoItemCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}

	item := &model.TodoItem{
		Title:     req.Title,
		SortOrder: req.SortOrder,
	}
	if err := s.store.CreateTodoItem(c.Context(), id, item); err != nil {
		return storeError(c, "list", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *Server) updateTodoItem(c *fiber.Ctx) error {
	listID, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "list")
	}
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return notFound(c, "item")
	}

	var upd store.TodoItemUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	item, err := s.store.UpdateTodoItem(c.Context(), listID, itemID, upd)
	if err != nil {
		return storeError(c, "item", err)
	}
	return c.JSON(item)
}

func (s *Server) deleteTodoItem(c *fiber.Ctx) error {
	listID, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "list")
	}
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return notFound(c, "item")
	}
	if err := s.store.DeleteTodoItem(c.Context(), listID, itemID); err != nil {
		return storeError(c, "item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
