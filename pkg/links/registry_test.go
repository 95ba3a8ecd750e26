package links

import (
	"context"
	"errors"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Follow{},
		&entities.FavoriteRecipe{},
		&entities.ShoppingCart{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func TestAddAndExists(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowRegistry(db)
	ctx := context.Background()

	userID, authorID := uuid.New(), uuid.New()

	exists, err := follows.Exists(ctx, userID, authorID)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true before Add")
	}

	if err := follows.Add(ctx, userID, authorID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	exists, err = follows.Exists(ctx, userID, authorID)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false after Add")
	}
}

func TestAdd_Duplicate(t *testing.T) {
	db := newTestDB(t)
	favorites := NewFavoriteRegistry(db)
	ctx := context.Background()

	userID, recipeID := uuid.New(), uuid.New()

	if err := favorites.Add(ctx, userID, recipeID); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	err := favorites.Add(ctx, userID, recipeID)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("second Add() error = %v, want ErrAlreadyExists", err)
	}

	var count int64
	if err := db.Model(&entities.FavoriteRecipe{}).Count(&count).Error; err != nil {
		t.Fatalf("count error = %v", err)
	}
	if count != 1 {
		t.Errorf("link rows = %d, want 1", count)
	}
}

func TestAdd_SamePairDifferentRegistries(t *testing.T) {
	db := newTestDB(t)
	favorites := NewFavoriteRegistry(db)
	cart := NewCartRegistry(db)
	ctx := context.Background()

	userID, recipeID := uuid.New(), uuid.New()

	if err := favorites.Add(ctx, userID, recipeID); err != nil {
		t.Fatalf("favorites Add() error = %v", err)
	}
	// The same pair in another registry is a different relationship.
	if err := cart.Add(ctx, userID, recipeID); err != nil {
		t.Errorf("cart Add() error = %v", err)
	}
}

func TestRemove(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartRegistry(db)
	ctx := context.Background()

	userID, recipeID := uuid.New(), uuid.New()

	if err := cart.Add(ctx, userID, recipeID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := cart.Remove(ctx, userID, recipeID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	exists, err := cart.Exists(ctx, userID, recipeID)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true after Remove")
	}
}

func TestRemove_Missing(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowRegistry(db)

	err := follows.Remove(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Remove() error = %v, want ErrNotFound", err)
	}
}

func TestExists_AnonymousViewer(t *testing.T) {
	db := newTestDB(t)
	favorites := NewFavoriteRegistry(db)

	exists, err := favorites.Exists(context.Background(), uuid.Nil, uuid.New())
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for anonymous viewer")
	}
}
