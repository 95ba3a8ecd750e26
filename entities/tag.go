package entities

import (
	"github.com/google/uuid"
)

// Tag is immutable reference data; rows are managed by admins, recipes only
// reference them.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:200;not null" json:"name"`
	Color string    `gorm:"size:7;default:#ffffff" json:"color"`
	Slug  string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}
