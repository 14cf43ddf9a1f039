package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"book-discovery-service/internal/app/service"
)

// BookHandler handles work, author and book detail requests.
type BookHandler struct {
	service *service.DetailsService
	logger  *zap.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.DetailsService, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		service: svc,
		logger:  logger,
	}
}

// Book handles GET /api/v1/books/:id
func (h *BookHandler) Book(c *fiber.Ctx) error {
	details, err := h.service.Book(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(details)
}

// Work handles GET /api/v1/works/:id
func (h *BookHandler) Work(c *fiber.Ctx) error {
	work, err := h.service.Work(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(work)
}

// Author handles GET /api/v1/authors/:id
func (h *BookHandler) Author(c *fiber.Ctx) error {
	author, err := h.service.Author(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(author)
}
