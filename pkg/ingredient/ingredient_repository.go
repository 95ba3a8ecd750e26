package ingredient

import (
	"context"
	"errors"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error)
		GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Ingredient, error)
		GetOrCreateIngredient(ctx context.Context, name, measurementUnit string) (*entities.Ingredient, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

// GetIngredients lists reference data, optionally narrowed by a
// case-insensitive name prefix for type-ahead search.
func (r *ingredientRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient

	query := r.db.WithContext(ctx)
	if namePrefix != "" {
		query = query.Where("lower(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}

	if err := query.Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Ingredient, error) {
	var ingredients []entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetOrCreateIngredient is the bulk-loader entry point: (name, unit) is the
// identity, loading the same CSV twice leaves the table unchanged.
func (r *ingredientRepository) GetOrCreateIngredient(ctx context.Context, name, measurementUnit string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	err := r.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, measurementUnit).
		First(&ingredient).Error
	if err == nil {
		return &ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ingredient = entities.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: measurementUnit,
	}
	if err := r.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent loader; the row exists now.
			if ferr := r.db.WithContext(ctx).
				Where("name = ? AND measurement_unit = ?", name, measurementUnit).
				First(&ingredient).Error; ferr == nil {
				return &ingredient, nil
			}
		}
		return nil, err
	}
	return &ingredient, nil
}
