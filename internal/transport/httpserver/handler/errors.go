package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"book-discovery-service/internal/domain"
	"book-discovery-service/internal/transport/httpserver/dto"
	"book-discovery-service/internal/validator"
)

// statusForError maps pipeline errors to an HTTP status and API code.
func statusForError(err error) (int, string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest, dto.CodeValidation
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return fiber.StatusBadRequest, dto.CodeValidation
	}

	var fe *domain.FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case domain.FetchErrorHTTPStatus:
			if fe.StatusCode == http.StatusNotFound {
				return fiber.StatusNotFound, dto.CodeNotFound
			}
			return fiber.StatusBadGateway, dto.CodeUpstreamError
		case domain.FetchErrorMalformed:
			return fiber.StatusBadGateway, dto.CodeUpstreamMalformed
		default:
			return fiber.StatusServiceUnavailable, dto.CodeUpstreamUnavailable
		}
	}

	return fiber.StatusInternalServerError, dto.CodeInternal
}

// statusForCode maps an API error code back to its HTTP status.
func statusForCode(code string) int {
	switch code {
	case "":
		return fiber.StatusOK
	case dto.CodeValidation, dto.CodeInvalidParams:
		return fiber.StatusBadRequest
	case dto.CodeNotFound:
		return fiber.StatusNotFound
	case dto.CodeUpstreamError, dto.CodeUpstreamMalformed:
		return fiber.StatusBadGateway
	case dto.CodeUpstreamUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	status, code := statusForError(err)

	resp := dto.ErrorResponse{
		Error: domain.ErrorMessage(err),
		Code:  code,
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		resp.Error = "validation failed"
		resp.Details = vErrs
	}

	return c.Status(status).JSON(resp)
}

// bindQuery binds and validates query parameters into req. When it reports
// false the error response has already been written and err is the result
// of writing it.
func bindQuery(c *fiber.Ctx, v *validator.Validator, req interface{}) (ok bool, err error) {
	if err := c.QueryParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  dto.CodeInvalidParams,
		})
	}

	if err := v.Validate(req); err != nil {
		return false, respondError(c, err)
	}

	return true, nil
}
