package ingredient

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

func newTestService(t *testing.T) IngredientService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return NewIngredientService(NewIngredientRepository(db))
}

func TestGetOrCreateIngredient(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.GetOrCreateIngredient(ctx, "flour", "g")
	if err != nil {
		t.Fatalf("GetOrCreateIngredient() error = %v", err)
	}
	if created.Name != "flour" || created.MeasurementUnit != "g" {
		t.Errorf("got %q %q, want flour g", created.Name, created.MeasurementUnit)
	}

	// A second call with the same identity returns the existing row.
	again, err := service.GetOrCreateIngredient(ctx, "flour", "g")
	if err != nil {
		t.Fatalf("GetOrCreateIngredient() second call error = %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("second call ID = %s, want %s", again.ID, created.ID)
	}

	// Same name with a different unit is a different ingredient.
	other, err := service.GetOrCreateIngredient(ctx, "flour", "kg")
	if err != nil {
		t.Fatalf("GetOrCreateIngredient() error = %v", err)
	}
	if other.ID == created.ID {
		t.Error("different unit reused the same ingredient row")
	}
}

func TestGetOrCreateIngredient_Validation(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, err := service.GetOrCreateIngredient(ctx, "", "g"); !domain.IsValidationError(err) {
		t.Errorf("empty name: error = %v, want validation error", err)
	}
	if _, err := service.GetOrCreateIngredient(ctx, "flour", ""); !domain.IsValidationError(err) {
		t.Errorf("empty unit: error = %v, want validation error", err)
	}
}

func TestGetIngredients_PrefixSearch(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	for _, seed := range []struct{ name, unit string }{
		{"Sugar", "g"},
		{"sunflower oil", "ml"},
		{"salt", "g"},
		{"flour", "g"},
	} {
		if _, err := service.GetOrCreateIngredient(ctx, seed.name, seed.unit); err != nil {
			t.Fatalf("seed %q: %v", seed.name, err)
		}
	}

	matches, err := service.GetIngredients(ctx, "su")
	if err != nil {
		t.Fatalf("GetIngredients() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("GetIngredients(su) returned %d items, want 2", len(matches))
	}
	// Case-insensitive prefix match, ordered by name.
	if matches[0].Name != "Sugar" || matches[1].Name != "sunflower oil" {
		t.Errorf("got %q, %q; want Sugar, sunflower oil", matches[0].Name, matches[1].Name)
	}

	all, err := service.GetIngredients(ctx, "")
	if err != nil {
		t.Fatalf("GetIngredients() error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("GetIngredients(\"\") returned %d items, want 4", len(all))
	}
}

func TestGetIngredient_NotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.GetIngredient(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetIngredient() error = %v, want ErrNotFound", err)
	}
}
