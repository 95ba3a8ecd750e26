package recipe

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipeGraph(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tags []entities.Tag) error
		UpdateRecipeGraph(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tags []entities.Tag) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
		GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipeGraph writes the recipe row, its ingredient lines and its tag
// set in one transaction. A failure anywhere rolls back everything, so a
// recipe with a partial ingredient or tag set is never observable.
func (r *recipeRepository) CreateRecipeGraph(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tags []entities.Tag) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrRecipeNameTaken
	}
	return err
}

// UpdateRecipeGraph overwrites the scalar columns and destructively replaces
// both sets: every ingredient line of the recipe is deleted and the submitted
// lines reinserted, the tag association is replaced whole. No diff or merge.
func (r *recipeRepository) UpdateRecipeGraph(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tags []entities.Tag) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]interface{}{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"image":        recipe.Image,
				"cooking_time": recipe.CookingTime,
			}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrRecipeNameTaken
	}
	return err
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.FavoriteRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// GetRecipes applies the listing filters: tag slugs OR-ed among themselves,
// every other category narrowing independently. Viewer-scoped categories are
// skipped for an anonymous viewer.
func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct()
	}
	if filter.AuthorID != uuid.Nil {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.IsFavorited && filter.Viewer != uuid.Nil {
		query = query.
			Joins("JOIN favorite_recipes ON favorite_recipes.recipe_id = recipes.id").
			Where("favorite_recipes.user_id = ?", filter.Viewer)
	}
	if filter.IsInShoppingCart && filter.Viewer != uuid.Nil {
		query = query.
			Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
			Where("shopping_carts.user_id = ?", filter.Viewer)
	}

	// Count on an isolated session: narrowing the select list to the distinct
	// ids must not leak into the statement the Find below reuses.
	if err := query.Session(&gorm.Session{}).Distinct("recipes.id").Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetShoppingList sums ingredient amounts across every recipe in the user's
// cart in a single grouped query. Grouping key is the ingredient row itself;
// rows come back ordered by ingredient name ascending so the export is
// deterministic.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
