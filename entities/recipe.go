package entities

import (
	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Image       string    `gorm:"type:text" json:"image"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`

	Author      *User              `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"tags,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
	Timestamp
}

// RecipeIngredient is one ingredient line of a recipe. A recipe never holds
// the same ingredient twice; the composite index is the race-breaker for
// concurrent writes.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       float64   `gorm:"type:numeric(6,2);not null" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
