package domain

import (
	"fmt"
)

var (
	MessageSuccessGetIngredients = "success get ingredients"
	MessageFailedGetIngredients  = "failed to get ingredients"

	ErrIngredientNotFound = fmt.Errorf("ingredient %w", ErrNotFound)
)

type (
	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	// RecipeIngredientResponse is an ingredient line as rendered inside a
	// recipe read model: reference data plus the recipe-specific amount.
	RecipeIngredientResponse struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		MeasurementUnit string  `json:"measurement_unit"`
		Amount          float64 `json:"amount"`
	}
)
