package handler

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/domain"
	"book-discovery-service/internal/transport/httpserver/dto"
	"book-discovery-service/internal/transport/httpserver/middleware"
	"book-discovery-service/internal/validator"
)

const layout = "layouts/base"

// PageHandler renders the HTML pages using Fiber's template engine.
type PageHandler struct {
	details   *service.DetailsService
	activity  *service.ActivityService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(
	details *service.DetailsService,
	activity *service.ActivityService,
	v *validator.Validator,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		details:   details,
		activity:  activity,
		validator: v,
		logger:    logger,
	}
}

// Home handles GET /
// The search form plus the latest catalog activity; a failing feed only
// hides the activity panel.
func (h *PageHandler) Home(c *fiber.Ctx) error {
	changes, err := h.activity.Recent(c.UserContext(), 0)
	if err != nil {
		h.logger.Debug("home page without activity panel", zap.Error(err))
		changes = nil
	}

	return c.Render("pages/home", fiber.Map{
		"Title":   "Book Discovery",
		"Changes": changes,
	}, layout)
}

// Search handles GET /search
func (h *PageHandler) Search(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return fiber.ErrInternalServerError
	}

	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return h.renderError(c, fiber.StatusBadRequest, "Invalid search parameters.")
	}
	if err := h.validator.Validate(&req); err != nil {
		return h.renderError(c, fiber.StatusBadRequest, err.Error())
	}

	view := sess.Search.View()
	if c.Query("q") != "" || req.Advanced() || c.Query("page") != "" {
		view = sess.Search.Search(c.UserContext(), req.Query, req.PageOrDefault(), req.ToFilters())
	}

	resp := dto.FromSearchView(view)

	data := fiber.Map{
		"Title":    "Search",
		"Request":  req,
		"Advanced": req.Advanced(),
		"View":     resp,
	}
	if resp.Pagination.HasPrev {
		data["PrevLink"] = searchPageLink(&req, resp.Pagination.Page-1)
	}
	if resp.Pagination.HasNext {
		data["NextLink"] = searchPageLink(&req, resp.Pagination.Page+1)
	}

	return c.Status(statusForCode(resp.Code)).Render("pages/search", data, layout)
}

// searchPageLink rebuilds the search URL for another page of the same query.
func searchPageLink(req *dto.SearchRequest, page int) string {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}

	set("q", req.Query)
	set("mode", req.Mode)
	set("title", req.Title)
	set("author", req.Author)
	set("subject", req.Subject)
	set("language", req.Language)
	if req.FirstPublishYear > 0 {
		q.Set("first_publish_year", strconv.Itoa(req.FirstPublishYear))
	}
	q.Set("page", strconv.Itoa(page))

	return "/search?" + q.Encode()
}

// Book handles GET /book/:id
func (h *PageHandler) Book(c *fiber.Ctx) error {
	details, err := h.details.Book(c.UserContext(), c.Params("id"))
	if err != nil {
		status, _ := statusForError(err)
		return h.renderError(c, status, domain.ErrorMessage(err))
	}

	return c.Render("pages/book", fiber.Map{
		"Title":   details.Work.Title,
		"Details": details,
		"Author":  details.AuthorName(),
	}, layout)
}

// Recent handles GET /recent
func (h *PageHandler) Recent(c *fiber.Ctx) error {
	changes, err := h.activity.Recent(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		status, _ := statusForError(err)
		return h.renderError(c, status, domain.ErrorMessage(err))
	}

	return c.Render("pages/recent", fiber.Map{
		"Title":   "Recent changes",
		"Changes": changes,
	}, layout)
}

func (h *PageHandler) renderError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).Render("pages/error", fiber.Map{
		"Title":   "Something went wrong",
		"Status":  status,
		"Message": message,
	}, layout)
}
