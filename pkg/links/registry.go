package links

import (
	"context"
	"errors"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// Registry manages one link table: unique (user, target) pairs whose
	// presence is the whole relationship. Follow, favorite and shopping-cart
	// links are three instances of it over different tables.
	Registry interface {
		Add(ctx context.Context, userID, targetID uuid.UUID) error
		Remove(ctx context.Context, userID, targetID uuid.UUID) error
		Exists(ctx context.Context, userID, targetID uuid.UUID) (bool, error)
	}

	registry[T any] struct {
		db           *gorm.DB
		targetColumn string
		build        func(id, userID, targetID uuid.UUID, now time.Time) *T
	}
)

func newRegistry[T any](db *gorm.DB, targetColumn string, build func(id, userID, targetID uuid.UUID, now time.Time) *T) Registry {
	return &registry[T]{db: db, targetColumn: targetColumn, build: build}
}

func NewFollowRegistry(db *gorm.DB) Registry {
	return newRegistry(db, "author_id", func(id, userID, targetID uuid.UUID, now time.Time) *entities.Follow {
		return &entities.Follow{ID: id, UserID: userID, AuthorID: targetID, CreatedAt: now}
	})
}

func NewFavoriteRegistry(db *gorm.DB) Registry {
	return newRegistry(db, "recipe_id", func(id, userID, targetID uuid.UUID, now time.Time) *entities.FavoriteRecipe {
		return &entities.FavoriteRecipe{ID: id, UserID: userID, RecipeID: targetID, CreatedAt: now}
	})
}

func NewCartRegistry(db *gorm.DB) Registry {
	return newRegistry(db, "recipe_id", func(id, userID, targetID uuid.UUID, now time.Time) *entities.ShoppingCart {
		return &entities.ShoppingCart{ID: id, UserID: userID, RecipeID: targetID, CreatedAt: now}
	})
}

// Add persists the link. A pre-check gives the common duplicate a clean
// answer; the unique index stays authoritative when two Adds race, so the
// loser still comes back as ErrAlreadyExists and only one row survives.
func (r *registry[T]) Add(ctx context.Context, userID, targetID uuid.UUID) error {
	exists, err := r.Exists(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	link := r.build(uuid.New(), userID, targetID, time.Now())
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *registry[T]) Remove(ctx context.Context, userID, targetID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND "+r.targetColumn+" = ?", userID, targetID).
		Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Exists reports membership. An anonymous viewer (uuid.Nil) is never a
// member; read serialization relies on that instead of special-casing.
func (r *registry[T]) Exists(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(new(T)).
		Where("user_id = ? AND "+r.targetColumn+" = ?", userID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
