package recipe

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/links"
	"foodgram-backend/pkg/tag"

	"github.com/google/uuid"
)

// ShoppingListHeader is the first line of the shopping list export.
const ShoppingListHeader = "Список покупок:"

// ShoppingListFileName is the attachment name the download endpoint serves.
const ShoppingListFileName = "Shopping_cart.txt"

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID uuid.UUID) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID uuid.UUID, req domain.UpdateRecipeRequest, userID uuid.UUID) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error
		GetRecipe(ctx context.Context, recipeID, viewerID uuid.UUID) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeResponse, int64, error)

		FavoriteRecipe(ctx context.Context, recipeID, userID uuid.UUID) (domain.RecipeShortResponse, error)
		UnfavoriteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error
		AddToShoppingCart(ctx context.Context, recipeID, userID uuid.UUID) (domain.RecipeShortResponse, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID, userID uuid.UUID) error
		DownloadShoppingCart(ctx context.Context, userID uuid.UUID) (string, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		favorites            links.Registry
		cart                 links.Registry
		follows              links.Registry
		uploader             storage.Uploader
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	favorites links.Registry,
	cart links.Registry,
	follows links.Registry,
	uploader storage.Uploader,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		favorites:            favorites,
		cart:                 cart,
		follows:              follows,
		uploader:             uploader,
	}
}

// composition is a validated recipe submission: resolved tags and ingredient
// lines, ready for the repository transaction.
type composition struct {
	tags  []entities.Tag
	lines []entities.RecipeIngredient
}

// resolveComposition checks the cross-field rules a struct validator cannot
// see: non-empty sets, positive amounts, no duplicate ingredient within one
// submission, and that every referenced tag and ingredient exists.
func (s *recipeService) resolveComposition(ctx context.Context, tagIDs []string, lineReqs []domain.IngredientLineRequest) (*composition, error) {
	if len(tagIDs) == 0 {
		return nil, domain.NewValidationError("tags", "at least one tag is required")
	}
	if len(lineReqs) == 0 {
		return nil, domain.NewValidationError("ingredients", "at least one ingredient is required")
	}

	tagUUIDs := make([]uuid.UUID, 0, len(tagIDs))
	seenTags := make(map[uuid.UUID]bool, len(tagIDs))
	for _, raw := range tagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.NewValidationError("tags", "invalid tag id")
		}
		if !seenTags[id] {
			seenTags[id] = true
			tagUUIDs = append(tagUUIDs, id)
		}
	}

	ingredientUUIDs := make([]uuid.UUID, 0, len(lineReqs))
	seen := make(map[uuid.UUID]bool, len(lineReqs))
	for _, line := range lineReqs {
		id, err := uuid.Parse(line.ID)
		if err != nil {
			return nil, domain.NewValidationError("ingredients", "invalid ingredient id")
		}
		if line.Amount <= 0 {
			return nil, domain.NewValidationError("ingredients", "amount must be greater than zero")
		}
		if seen[id] {
			return nil, domain.NewValidationError("ingredients", "ingredients cannot repeat")
		}
		seen[id] = true
		ingredientUUIDs = append(ingredientUUIDs, id)
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, tagUUIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagUUIDs) {
		return nil, domain.NewValidationError("tags", "unknown tag id")
	}

	ingredients, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ingredientUUIDs)
	if err != nil {
		return nil, err
	}
	if len(ingredients) != len(ingredientUUIDs) {
		return nil, domain.NewValidationError("ingredients", "unknown ingredient id")
	}

	lines := make([]entities.RecipeIngredient, 0, len(lineReqs))
	for _, line := range lineReqs {
		lines = append(lines, entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: uuid.MustParse(line.ID),
			Amount:       line.Amount,
		})
	}

	return &composition{tags: tags, lines: lines}, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID uuid.UUID) (domain.RecipeResponse, error) {
	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.NewValidationError("cooking_time", "cooking time must be at least 1")
	}

	comp, err := s.resolveComposition(ctx, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	image, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	for i := range comp.lines {
		comp.lines[i].RecipeID = recipe.ID
	}

	if err := s.recipeRepository.CreateRecipeGraph(ctx, recipe, comp.lines, comp.tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipe(ctx, recipe.ID, authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID uuid.UUID, req domain.UpdateRecipeRequest, userID uuid.UUID) (domain.RecipeResponse, error) {
	stored, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if stored.AuthorID != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	// Present scalar fields overwrite whole, absent ones keep the stored value.
	if req.Name != nil {
		stored.Name = *req.Name
	}
	if req.Text != nil {
		stored.Text = *req.Text
	}
	if req.Image != nil {
		image, err := s.storeImage(ctx, *req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		stored.Image = image
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return domain.RecipeResponse{}, domain.NewValidationError("cooking_time", "cooking time must be at least 1")
		}
		stored.CookingTime = *req.CookingTime
	}

	comp, err := s.resolveComposition(ctx, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	for i := range comp.lines {
		comp.lines[i].RecipeID = stored.ID
	}

	if err := s.recipeRepository.UpdateRecipeGraph(ctx, stored, comp.lines, comp.tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipe(ctx, stored.ID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error {
	stored, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if stored.AuthorID != userID {
		return domain.ErrNotRecipeAuthor
	}
	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID, viewerID uuid.UUID) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, recipe, viewerID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		res, err := s.toRecipeResponse(ctx, r, filter.Viewer)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}
	return result, count, nil
}

func (s *recipeService) FavoriteRecipe(ctx context.Context, recipeID, userID uuid.UUID) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if err := s.favorites.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShortResponse{}, err
	}
	return toRecipeShortResponse(recipe), nil
}

func (s *recipeService) UnfavoriteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		return err
	}
	if err := s.favorites.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID, userID uuid.UUID) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if err := s.cart.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
		}
		return domain.RecipeShortResponse{}, err
	}
	return toRecipeShortResponse(recipe), nil
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID, userID uuid.UUID) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		return err
	}
	if err := s.cart.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCartEntryNotFound
		}
		return err
	}
	return nil
}

// DownloadShoppingCart renders the aggregated cart as the plain-text report:
// the fixed header, then one "<name> - <amount> <unit>." line per distinct
// ingredient, name ascending. An empty cart yields the header alone.
func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID uuid.UUID) (string, error) {
	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(item.Name)
		b.WriteString(" - ")
		b.WriteString(formatAmount(item.Amount))
		b.WriteString(" ")
		b.WriteString(item.MeasurementUnit)
		b.WriteString(".\n")
	}
	return b.String(), nil
}

// storeImage uploads a base64 data-URI payload to object storage and returns
// its URL. Anything else is treated as an already-hosted reference and kept
// verbatim.
func (s *recipeService) storeImage(ctx context.Context, image string) (string, error) {
	if s.uploader == nil || !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	payload, contentType, err := storage.DecodeDataURI(image)
	if err != nil {
		return "", domain.NewValidationError("image", "invalid image payload")
	}
	return s.uploader.Upload(ctx, "recipes/"+uuid.New().String(), payload, contentType)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func (s *recipeService) toRecipeResponse(ctx context.Context, recipe *entities.Recipe, viewerID uuid.UUID) (domain.RecipeResponse, error) {
	isFavorited, err := s.favorites.Exists(ctx, viewerID, recipe.ID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	isInCart, err := s.cart.Exists(ctx, viewerID, recipe.ID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	author := domain.UserResponse{}
	if recipe.Author != nil {
		isSubscribed, err := s.follows.Exists(ctx, viewerID, recipe.AuthorID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		author = domain.UserResponse{
			ID:           recipe.Author.ID.String(),
			Email:        recipe.Author.Email,
			Username:     recipe.Author.Username,
			FirstName:    recipe.Author.FirstName,
			LastName:     recipe.Author.LastName,
			IsSubscribed: isSubscribed,
		}
	}

	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tags = append(tags, domain.TagResponse{
			ID:    t.ID.String(),
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		res := domain.RecipeIngredientResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			res.Name = line.Ingredient.Name
			res.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, res)
	}

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

func toRecipeShortResponse(recipe *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
