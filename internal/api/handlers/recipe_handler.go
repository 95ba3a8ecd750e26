package handlers

import (
	"context"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		FavoriteRecipe(c *fiber.Ctx) error
		UnfavoriteRecipe(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

// GetRecipes lists recipes through the filter layer. Tag slugs may repeat
// (?tags=a&tags=b) or come comma-separated; author, is_favorited and
// is_in_shopping_cart narrow further.
func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	filter := domain.RecipeFilter{Viewer: viewerID(c)}

	var slugs []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("tags") {
		for _, slug := range strings.Split(string(raw), ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	filter.TagSlugs = slugs

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, domain.ErrParseUUID)
		}
		filter.AuthorID = id
	}
	filter.IsFavorited = c.QueryBool("is_favorited", false)
	filter.IsInShoppingCart = c.QueryBool("is_in_shopping_cart", false)

	page, limit := pagination(c)
	recipes, count, err := h.recipeService.GetRecipes(c.Context(), filter, page, limit)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, paginated(recipes, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipeDetail, domain.ErrParseUUID)
	}

	res, err := h.recipeService.GetRecipe(c.Context(), recipeID, viewerID(c))
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}

	req := new(domain.CreateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, userID)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedCreateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}
	recipeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, domain.ErrParseUUID)
	}

	req := new(domain.UpdateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), recipeID, *req, userID)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedUpdateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}
	recipeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteRecipe, domain.ErrParseUUID)
	}

	if err := h.recipeService.DeleteRecipe(c.Context(), recipeID, userID); err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) FavoriteRecipe(c *fiber.Ctx) error {
	return h.link(c, h.recipeService.FavoriteRecipe, domain.MessageSuccessFavorite, domain.MessageFailedFavorite)
}

func (h *recipeHandler) UnfavoriteRecipe(c *fiber.Ctx) error {
	return h.unlink(c, h.recipeService.UnfavoriteRecipe, domain.MessageSuccessUnfavorite, domain.MessageFailedUnfavorite)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	return h.link(c, h.recipeService.AddToShoppingCart, domain.MessageSuccessAddToCart, domain.MessageFailedAddToCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	return h.unlink(c, h.recipeService.RemoveFromShoppingCart, domain.MessageSuccessRemoveFromCart, domain.MessageFailedRemoveFromCart)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}

	report, err := h.recipeService.DownloadShoppingCart(c.Context(), userID)
	if err != nil {
		return presenters.FailureResponse(c, domain.MessageFailedDownloadCart, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+recipe.ShoppingListFileName+`"`)
	return c.SendString(report)
}

func (h *recipeHandler) link(c *fiber.Ctx, do func(ctx context.Context, recipeID, userID uuid.UUID) (domain.RecipeShortResponse, error), successMsg, failMsg string) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}
	recipeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, failMsg, domain.ErrParseUUID)
	}

	res, err := do(c.Context(), recipeID, userID)
	if err != nil {
		return presenters.FailureResponse(c, failMsg, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, successMsg)
}

func (h *recipeHandler) unlink(c *fiber.Ctx, do func(ctx context.Context, recipeID, userID uuid.UUID) error, successMsg, failMsg string) error {
	userID, err := authedUserID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrParseUUID)
	}
	recipeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, failMsg, domain.ErrParseUUID)
	}

	if err := do(c.Context(), recipeID, userID); err != nil {
		return presenters.FailureResponse(c, failMsg, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, successMsg)
}
