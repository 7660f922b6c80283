package web

import (
	"github.com/gofiber/fiber/v2"

	"ecal/internal/model"
	"ecal/internal/store"
)

type categoryCreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) listCategories(c *fiber.Ctx) error {
	cats, err := s.store.ListCategories(c.Context())
	if err != nil {
		return storeError(c, "categories", err)
	}
	return c.JSON(cats)
}

func (s *Server) createCategory(c *fiber.Ctx) error {
	var req categoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}

	cat := &model.Category{
		Name:  req.Name,
		Color: req.Color,
	}
	if err := s.store.CreateCategory(c.Context(), cat); err != nil {
		return storeError(c, "category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (s *Server) getCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "category")
	}
	cat, err := s.store.GetCategory(c.Context(), id)
	if err != nil {
		return storeError(c, "category", err)
	}
	return c.JSON(cat)
}

func (s *Server) updateCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "category")
	}

	var upd store.CategoryUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	cat, err := s.store.UpdateCategory(c.Context(), id, upd)
	if err != nil {
		return storeError(c, "category", err)
	}
	return c.JSON(cat)
}

func (s *Server) deleteCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "category")
	}
	if err := s.store.DeleteCategory(c.Context(), id); err != nil {
		return storeError(c, "category", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
