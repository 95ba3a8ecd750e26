package routes

import (
	"foodgram-backend/internal/api/handlers"
	"foodgram-backend/internal/middleware"
	"foodgram-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	RecipeHandler     handlers.RecipeHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Tags()
	c.Ingredients()
	c.Recipes()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/set_password", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.SetPassword)
		user.Get("/subscriptions", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetSubscriptions)
		user.Get("", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.UserHandler.GetUsers)
		user.Get("/:id", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.UserHandler.GetUser)
		user.Post("/:id/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Tags() {
	tags := c.App.Group("/api/v1/tags")
	{
		tags.Get("", c.TagHandler.GetTags)
		tags.Get("/:id", c.TagHandler.GetTag)
	}
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/v1/ingredients")
	{
		ingredients.Get("", c.IngredientHandler.GetIngredients)
		ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")
	{
		recipes.Get("/download_shopping_cart", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DownloadShoppingCart)
		recipes.Get("", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetRecipes)
		recipes.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.CreateRecipe)
		recipes.Get("/:id", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetRecipeDetail)
		recipes.Patch("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DeleteRecipe)
		recipes.Post("/:id/favorite", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.FavoriteRecipe)
		recipes.Delete("/:id/favorite", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.UnfavoriteRecipe)
		recipes.Post("/:id/shopping_cart", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.AddToShoppingCart)
		recipes.Delete("/:id/shopping_cart", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.RemoveFromShoppingCart)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
