package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"questionnaire/internal/http/middleware"
	"questionnaire/internal/parser"
	"questionnaire/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "UNSUPPORTED_FORMAT")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service and parser errors into the error envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		unsupported *parser.UnsupportedFormatError
		missing     *parser.MissingDependencyError
		extraction  *parser.FormatExtractionError
	)
	switch {
	case errors.As(err, &unsupported):
		ext := unsupported.Extension
		if ext == "" {
			ext = "(none)"
		}
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported file extension %s; accepted: %s", ext, strings.Join(parser.Extensions(), ", ")))
	case errors.As(err, &missing):
		return writeError(c, fiber.StatusNotImplemented, "MISSING_DEPENDENCY",
			fmt.Sprintf("no extractor available for %s files", missing.Extension))
	case errors.As(err, &extraction):
		return writeError(c, fiber.StatusUnprocessableEntity, "EXTRACTION_FAILED",
			fmt.Sprintf("document could not be read as %s", extraction.Format))
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the maximum upload size")
	case errors.Is(err, service.ErrParseTimeout):
		return writeError(c, fiber.StatusGatewayTimeout, "PARSE_TIMEOUT", "document took too long to parse")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "questionnaire not found")
	case errors.Is(err, service.ErrSourceMissing):
		return writeError(c, fiber.StatusGone, "SOURCE_MISSING", "original file is no longer stored")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
