package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clientportal/internal/http/middleware"
	"clientportal/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
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

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable message
// - detail: underlying error text, only set for unexpected failures
func writeError(c *fiber.Ctx, status int, code, message, detail string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Detail:  detail,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a service error kind to its status and code.
// fallback is the message used for unexpected failures.
func writeServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch service.KindOf(err) {
	case service.KindValidation:
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "")
	case service.KindConflict:
		return writeError(c, fiber.StatusBadRequest, "CONFLICT", err.Error(), "")
	case service.KindNotFound:
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error(), "")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", fallback, err.Error())
	}
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format", "")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request", "")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found", "")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed", "")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large", "")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error", "")
		}
	}
}
