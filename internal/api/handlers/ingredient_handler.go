package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/ingredient"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type (
	IngredientHandler interface {
		GetIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService) IngredientHandler {
	return &ingredientHandler{ingredientService: ingredientService}
}

// GetIngredients serves type-ahead search: ?name= narrows by prefix.
func (h *ingredientHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredients(c.Context(), c.Query("name"))
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *ingredientHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetIngredients, domain.ErrParseUUID)
	}

	res, err := h.ingredientService.GetIngredient(c.Context(), id)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}
