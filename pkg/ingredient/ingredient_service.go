package ingredient

import (
	"context"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
		GetIngredient(ctx context.Context, id uuid.UUID) (domain.IngredientResponse, error)
		GetOrCreateIngredient(ctx context.Context, name, measurementUnit string) (domain.IngredientResponse, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	result := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		result = append(result, toIngredientResponse(*i))
	}
	return result, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uuid.UUID) (domain.IngredientResponse, error) {
	i, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	return toIngredientResponse(*i), nil
}

func (s *ingredientService) GetOrCreateIngredient(ctx context.Context, name, measurementUnit string) (domain.IngredientResponse, error) {
	if name == "" {
		return domain.IngredientResponse{}, domain.NewValidationError("name", "name is required")
	}
	if measurementUnit == "" {
		return domain.IngredientResponse{}, domain.NewValidationError("measurement_unit", "measurement unit is required")
	}

	i, err := s.ingredientRepository.GetOrCreateIngredient(ctx, name, measurementUnit)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	return toIngredientResponse(*i), nil
}

func toIngredientResponse(i entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}
