package entities

import (
	"time"

	"github.com/google/uuid"
)

// Link tables: presence of a row is the whole relationship. Each carries a
// composite unique index so a duplicate insert loses the race at the
// database, never producing a second row.

type Follow struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"author_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User `gorm:"foreignKey:UserID" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

type FavoriteRecipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}

type ShoppingCart struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_pair" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}
