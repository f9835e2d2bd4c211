package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/picking-salida/internal/application/dto"
	"github.com/jhoicas/picking-salida/internal/domain"
)

// writeError traduce los errores de dominio a estado HTTP + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrEmptyScan):
		status, code = fiber.StatusBadRequest, "EMPTY_SCAN"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNoScans):
		status, code = fiber.StatusConflict, "NO_SCANS"
	case errors.Is(err, domain.ErrNoUploadTarget):
		status, code = fiber.StatusUnprocessableEntity, "NO_UPLOAD_TARGET"
	case errors.Is(err, domain.ErrNoReferenceFiles):
		status, code = fiber.StatusUnprocessableEntity, "NO_REFERENCE_FILES"
	case errors.Is(err, domain.ErrUploadFailed):
		status, code = fiber.StatusBadGateway, "UPLOAD_FAILED"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
