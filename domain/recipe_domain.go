package domain

import (
	"fmt"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessFavorite        = "recipe added to favorites"
	MessageSuccessUnfavorite      = "recipe removed from favorites"
	MessageSuccessAddToCart       = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart  = "recipe removed from shopping cart"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedFavorite        = "failed to add recipe to favorites"
	MessageFailedUnfavorite      = "failed to remove recipe from favorites"
	MessageFailedAddToCart       = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart  = "failed to remove recipe from shopping cart"
	MessageFailedDownloadCart    = "failed to download shopping cart"

	ErrRecipeNotFound    = fmt.Errorf("recipe %w", ErrNotFound)
	ErrRecipeNameTaken   = fmt.Errorf("recipe name %w", ErrAlreadyExists)
	ErrAlreadyFavorited  = fmt.Errorf("favorite %w", ErrAlreadyExists)
	ErrFavoriteNotFound  = fmt.Errorf("favorite %w", ErrNotFound)
	ErrAlreadyInCart     = fmt.Errorf("shopping cart entry %w", ErrAlreadyExists)
	ErrCartEntryNotFound = fmt.Errorf("shopping cart entry %w", ErrNotFound)
	ErrNotRecipeAuthor   = fmt.Errorf("recipe author mismatch: %w", ErrUserNotAllowed)
)

type (
	// IngredientLineRequest is one (ingredient, amount) pair of a submission.
	IngredientLineRequest struct {
		ID     string  `json:"id" validate:"required,uuid"`
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}

	CreateRecipeRequest struct {
		Name        string                  `json:"name" validate:"required,max=200"`
		Text        string                  `json:"text" validate:"required"`
		Image       string                  `json:"image" validate:"required"`
		CookingTime int                     `json:"cooking_time" validate:"required,min=1"`
		Tags        []string                `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientLineRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	// UpdateRecipeRequest carries pointer scalars: nil keeps the stored value,
	// a present field overwrites it whole. Tag and ingredient sets are always
	// submitted in full and replace the stored sets.
	UpdateRecipeRequest struct {
		Name        *string                 `json:"name" validate:"omitempty,max=200"`
		Text        *string                 `json:"text"`
		Image       *string                 `json:"image"`
		CookingTime *int                    `json:"cooking_time" validate:"omitempty,min=1"`
		Tags        []string                `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientLineRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeFilter narrows the recipe listing. Filter categories compose with
	// AND; the tag slugs match with OR among themselves. Viewer-scoped flags
	// are ignored for an anonymous viewer (uuid.Nil).
	RecipeFilter struct {
		TagSlugs         []string
		AuthorID         uuid.UUID
		IsFavorited      bool
		IsInShoppingCart bool
		Viewer           uuid.UUID
	}

	// ShoppingListItem is one aggregated row of the shopping list export:
	// total amount of an ingredient across every recipe in the cart.
	ShoppingListItem struct {
		Name            string  `json:"name"`
		MeasurementUnit string  `json:"measurement_unit"`
		Amount          float64 `json:"amount"`
	}
)
