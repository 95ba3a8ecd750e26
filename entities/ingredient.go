package entities

import (
	"github.com/google/uuid"
)

// Ingredient is immutable reference data. (name, measurement_unit) is the
// effective identity; the bulk loader relies on it for get-or-create.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}
