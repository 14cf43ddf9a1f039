// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/transport/httpserver/dto"
	"book-discovery-service/internal/transport/httpserver/middleware"
	"book-discovery-service/internal/validator"
)

// suggestTimeout bounds how long a suggestion request waits for its input
// to settle.
const suggestTimeout = 5 * time.Second

// SearchHandler serves the visitor's search session over JSON.
type SearchHandler struct {
	validator *validator.Validator
	logger    *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(v *validator.Validator, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		validator: v,
		logger:    logger,
	}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}

	var req dto.SearchRequest
	if ok, err := bindQuery(c, h.validator, &req); !ok {
		return err
	}

	view := sess.Search.Search(c.UserContext(), req.Query, req.PageOrDefault(), req.ToFilters())

	return h.respondView(c, view)
}

// View handles GET /api/v1/session
func (h *SearchHandler) View(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}

	return c.JSON(dto.FromSearchView(sess.Search.View()))
}

// GoToPage handles GET /api/v1/session/page/:page
func (h *SearchHandler) GoToPage(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}

	page, err := c.ParamsInt("page")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "page must be a number",
			Code:  dto.CodeInvalidParams,
		})
	}

	return h.respondView(c, sess.Search.GoToPage(c.UserContext(), page))
}

// Refresh handles POST /api/v1/session/refresh
func (h *SearchHandler) Refresh(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}

	return h.respondView(c, sess.Search.Refresh(c.UserContext()))
}

// Suggest handles GET /api/v1/suggestions
func (h *SearchHandler) Suggest(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if sess == nil {
		return err
	}

	var req dto.SuggestRequest
	if ok, err := bindQuery(c, h.validator, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), suggestTimeout)
	defer cancel()

	titles, err := sess.Suggest.Await(ctx, req.Query)
	if err != nil {
		h.logger.Debug("suggestions not settled", zap.String("query", req.Query), zap.Error(err))
	}
	if titles == nil {
		titles = []string{}
	}

	return c.JSON(dto.SuggestionsResponse{
		Query:       req.Query,
		Suggestions: titles,
	})
}

func (h *SearchHandler) respondView(c *fiber.Ctx, view service.SearchView) error {
	resp := dto.FromSearchView(view)

	return c.Status(statusForCode(resp.Code)).JSON(resp)
}

// session returns the request's session. When it returns nil the error
// response has been written.
func (h *SearchHandler) session(c *fiber.Ctx) (*service.Session, error) {
	sess := middleware.SessionFrom(c)
	if sess != nil {
		return sess, nil
	}

	h.logger.Error("request reached search handler without a session", zap.String("path", c.Path()))

	return nil, c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "session unavailable",
		Code:  dto.CodeInternal,
	})
}
