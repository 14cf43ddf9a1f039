package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"book-discovery-service/internal/domain"
	"book-discovery-service/internal/transport/httpserver/dto"
	"book-discovery-service/internal/validator"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.ErrQueryTooShort, fiber.StatusBadRequest, dto.CodeValidation},
		{"wrapped validation", fmt.Errorf("build: %w", domain.ErrInvalidKey), fiber.StatusBadRequest, dto.CodeValidation},
		{"dto validation", validator.ValidationErrors{{Field: "q"}}, fiber.StatusBadRequest, dto.CodeValidation},
		{"upstream 404", &domain.FetchError{Kind: domain.FetchErrorHTTPStatus, StatusCode: 404}, fiber.StatusNotFound, dto.CodeNotFound},
		{"upstream 500", &domain.FetchError{Kind: domain.FetchErrorHTTPStatus, StatusCode: 500}, fiber.StatusBadGateway, dto.CodeUpstreamError},
		{"malformed", &domain.FetchError{Kind: domain.FetchErrorMalformed}, fiber.StatusBadGateway, dto.CodeUpstreamMalformed},
		{"network", &domain.FetchError{Kind: domain.FetchErrorNetwork}, fiber.StatusServiceUnavailable, dto.CodeUpstreamUnavailable},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, dto.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := statusForError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, fiber.StatusOK, statusForCode(""))
	assert.Equal(t, fiber.StatusBadRequest, statusForCode(dto.CodeValidation))
	assert.Equal(t, fiber.StatusBadGateway, statusForCode(dto.CodeUpstreamMalformed))
	assert.Equal(t, fiber.StatusServiceUnavailable, statusForCode(dto.CodeUpstreamUnavailable))
	assert.Equal(t, fiber.StatusInternalServerError, statusForCode("SOMETHING_ELSE"))
}
