package presenters

import (
	"errors"

	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

// FailureResponse maps a domain error to its status code: validation input
// problems to 400, missing links/entities to 404, duplicate links to 409,
// authorship violations to 403.
func FailureResponse(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}

func StatusFromError(err error) int {
	switch {
	case domain.IsValidationError(err), errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadRequest
	}
}
