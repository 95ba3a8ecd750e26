package user

import (
	"context"
	"errors"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/links"
	"foodgram-backend/pkg/recipe"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

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

	service := NewUserService(
		NewUserRepository(db),
		recipe.NewRecipeRepository(db),
		links.NewFollowRegistry(db),
		jwt.NewJWTService(),
		nil,
	)
	return service, db
}

func registerTestUser(t *testing.T, service UserService, username string) domain.UserResponse {
	t.Helper()
	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
	return res
}

func TestRegister(t *testing.T) {
	service, db := newTestService(t)

	res := registerTestUser(t, service, "alice")
	if res.Username != "alice" {
		t.Errorf("Username = %q, want alice", res.Username)
	}
	if res.IsSubscribed {
		t.Error("IsSubscribed = true on a fresh account")
	}

	var stored entities.User
	if err := db.Where("username = ?", "alice").First(&stored).Error; err != nil {
		t.Fatalf("stored user lookup failed: %v", err)
	}
	if stored.Role != entities.RoleUser {
		t.Errorf("Role = %q, want %q", stored.Role, entities.RoleUser)
	}
	if stored.Password == "correct-horse" {
		t.Error("password stored in plain text")
	}
}

func TestRegister_Validation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{"reserved username", domain.RegisterRequest{Email: "a@example.com", Username: "me", Password: "correct-horse"}},
		{"reserved username uppercase", domain.RegisterRequest{Email: "a@example.com", Username: "Me", Password: "correct-horse"}},
		{"username equals email", domain.RegisterRequest{Email: "a@example.com", Username: "a@example.com", Password: "correct-horse"}},
		{"invalid characters", domain.RegisterRequest{Email: "a@example.com", Username: "has space", Password: "correct-horse"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Register(ctx, tc.req); !domain.IsValidationError(err) {
				t.Errorf("Register() error = %v, want validation error", err)
			}
		})
	}
}

func TestRegister_Taken(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	registerTestUser(t, service, "alice")

	_, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "alice@example.com",
		Username: "different",
		Password: "correct-horse",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate email: error = %v, want ErrAlreadyExists", err)
	}

	_, err = service.Register(ctx, domain.RegisterRequest{
		Email:    "other@example.com",
		Username: "alice",
		Password: "correct-horse",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate username: error = %v, want ErrAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	registerTestUser(t, service, "alice")

	res, err := service.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Token == "" {
		t.Error("Login() returned an empty token")
	}

	if _, err := service.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "wrong"}); !domain.IsValidationError(err) {
		t.Errorf("wrong password: error = %v, want credentials error", err)
	}
	if _, err := service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"}); !domain.IsValidationError(err) {
		t.Errorf("unknown email: error = %v, want credentials error", err)
	}
}

func TestSetPassword(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	res := registerTestUser(t, service, "alice")
	userID := uuid.MustParse(res.ID)

	err := service.SetPassword(ctx, userID, domain.SetPasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "fresh-password",
	})
	if !domain.IsValidationError(err) {
		t.Errorf("wrong current password: error = %v, want validation error", err)
	}

	err = service.SetPassword(ctx, userID, domain.SetPasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "correct-horse",
	})
	if !domain.IsValidationError(err) {
		t.Errorf("unchanged password: error = %v, want validation error", err)
	}

	if err := service.SetPassword(ctx, userID, domain.SetPasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "fresh-password",
	}); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}

	if _, err := service.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "fresh-password"}); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
	if _, err := service.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "correct-horse"}); err == nil {
		t.Error("Login() with old password still succeeds")
	}
}

func TestSubscribe(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	alice := uuid.MustParse(registerTestUser(t, service, "alice").ID)
	bob := uuid.MustParse(registerTestUser(t, service, "bob").ID)

	res, err := service.Subscribe(ctx, alice, bob)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if res.Username != "bob" {
		t.Errorf("Username = %q, want bob", res.Username)
	}
	if !res.IsSubscribed {
		t.Error("IsSubscribed = false right after subscribing")
	}

	if _, err := service.Subscribe(ctx, alice, bob); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate Subscribe() error = %v, want ErrAlreadyExists", err)
	}

	// The flag shows up viewer-scoped on profile reads.
	profile, err := service.GetUser(ctx, bob, alice)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if !profile.IsSubscribed {
		t.Error("IsSubscribed = false on the followed author's profile")
	}
	reverse, err := service.GetUser(ctx, alice, bob)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if reverse.IsSubscribed {
		t.Error("IsSubscribed = true for the reverse direction")
	}
}

func TestSubscribe_Self(t *testing.T) {
	service, _ := newTestService(t)

	alice := uuid.MustParse(registerTestUser(t, service, "alice").ID)
	if _, err := service.Subscribe(context.Background(), alice, alice); !domain.IsValidationError(err) {
		t.Errorf("self Subscribe() error = %v, want validation error", err)
	}
}

func TestSubscribe_UnknownAuthor(t *testing.T) {
	service, _ := newTestService(t)

	alice := uuid.MustParse(registerTestUser(t, service, "alice").ID)
	if _, err := service.Subscribe(context.Background(), alice, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Subscribe() to unknown author error = %v, want ErrNotFound", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	alice := uuid.MustParse(registerTestUser(t, service, "alice").ID)
	bob := uuid.MustParse(registerTestUser(t, service, "bob").ID)

	if err := service.Unsubscribe(ctx, alice, bob); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Unsubscribe() without subscription error = %v, want ErrNotFound", err)
	}

	if _, err := service.Subscribe(ctx, alice, bob); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := service.Unsubscribe(ctx, alice, bob); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}

	profile, err := service.GetUser(ctx, bob, alice)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if profile.IsSubscribed {
		t.Error("IsSubscribed = true after unsubscribing")
	}
}

func TestGetSubscriptions(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	alice := uuid.MustParse(registerTestUser(t, service, "alice").ID)
	bob := uuid.MustParse(registerTestUser(t, service, "bob").ID)
	registerTestUser(t, service, "carol")

	// bob has one recipe; it should ride along in short form.
	if err := db.Create(&entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    bob,
		Name:        "bread",
		Text:        "bake it",
		CookingTime: 60,
	}).Error; err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}

	if _, err := service.Subscribe(ctx, alice, bob); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	subs, count, err := service.GetSubscriptions(ctx, alice, 1, 20)
	if err != nil {
		t.Fatalf("GetSubscriptions() error = %v", err)
	}
	if count != 1 || len(subs) != 1 {
		t.Fatalf("GetSubscriptions() = %d items (count %d), want 1", len(subs), count)
	}

	sub := subs[0]
	if sub.Username != "bob" {
		t.Errorf("Username = %q, want bob", sub.Username)
	}
	if !sub.IsSubscribed {
		t.Error("IsSubscribed = false in subscriptions listing")
	}
	if sub.RecipesCount != 1 || len(sub.Recipes) != 1 {
		t.Fatalf("Recipes = %d (count %d), want 1", len(sub.Recipes), sub.RecipesCount)
	}
	if sub.Recipes[0].Name != "bread" {
		t.Errorf("recipe name = %q, want bread", sub.Recipes[0].Name)
	}
}
