package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/domain"
	"book-discovery-service/internal/transport/httpserver/dto"
	"book-discovery-service/internal/validator"
)

// ActivityHandler serves the recent-changes feed.
type ActivityHandler struct {
	service   *service.ActivityService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, v *validator.Validator, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Recent handles GET /api/v1/recent-changes
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	var req dto.RecentChangesRequest
	if ok, err := bindQuery(c, h.validator, &req); !ok {
		return err
	}

	entries, err := h.service.Recent(c.UserContext(), req.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.RecentChangesResponse{
		Changes: entries,
		Count:   len(entries),
	})
}

// Health handles GET /api/v1/health
// Unlike /readyz it reports which upstream failed.
func (h *ActivityHandler) Health(c *fiber.Ctx) error {
	checks := map[string]string{"openlibrary": "ok"}
	status := "ok"

	if err := h.service.Ping(c.UserContext()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		checks["openlibrary"] = domain.ErrorMessage(err)
		status = "degraded"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(dto.NewHealthResponse(status, checks))
}
