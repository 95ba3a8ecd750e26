package presenters

import (
	"errors"
	"testing"

	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", domain.NewValidationError("name", "required"), fiber.StatusBadRequest},
		{"bad uuid", domain.ErrParseUUID, fiber.StatusBadRequest},
		{"not found", domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{"wrapped not found", domain.ErrSubscriptionNotFound, fiber.StatusNotFound},
		{"conflict", domain.ErrAlreadyFavorited, fiber.StatusConflict},
		{"email taken", domain.ErrEmailTaken, fiber.StatusConflict},
		{"forbidden", domain.ErrNotRecipeAuthor, fiber.StatusForbidden},
		{"token expired", domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{"unknown error", errors.New("boom"), fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFromError(tc.err); got != tc.want {
				t.Errorf("StatusFromError(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
