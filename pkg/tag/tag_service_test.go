package tag

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

func newTestService(t *testing.T) (TagService, TagRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&entities.Tag{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	repo := NewTagRepository(db)
	return NewTagService(repo), repo
}

func TestGetTags(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	for _, seed := range []struct{ name, slug string }{
		{"Dinner", "dinner"},
		{"Breakfast", "breakfast"},
	} {
		err := repo.CreateTag(ctx, &entities.Tag{ID: uuid.New(), Name: seed.name, Color: "#49B64E", Slug: seed.slug})
		if err != nil {
			t.Fatalf("failed to seed tag %s: %v", seed.slug, err)
		}
	}

	tags, err := service.GetTags(ctx)
	if err != nil {
		t.Fatalf("GetTags() error = %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("GetTags() returned %d tags, want 2", len(tags))
	}
	// Ordered by name.
	if tags[0].Name != "Breakfast" || tags[1].Name != "Dinner" {
		t.Errorf("got %q, %q; want Breakfast, Dinner", tags[0].Name, tags[1].Name)
	}
}

func TestGetTag_NotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.GetTag(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetTag() error = %v, want ErrNotFound", err)
	}
}
