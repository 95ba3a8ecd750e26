package entities

import (
	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Password  string    `gorm:"size:150;not null" json:"-"`
	Role      string    `gorm:"size:16;default:user" json:"role"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`

	Recipes []Recipe `gorm:"foreignKey:AuthorID" json:"-"`
	Timestamp
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
