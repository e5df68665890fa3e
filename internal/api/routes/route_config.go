package routes

import (
	"MatSmart-Lager/internal/api/handlers"
	"MatSmart-Lager/internal/middleware"
	"MatSmart-Lager/pkg/jwt"
	"MatSmart-Lager/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App                *fiber.App
	InventoryHandler   handlers.InventoryHandler
	ConsumptionHandler handlers.ConsumptionHandler
	CookingHandler     handlers.CookingHandler
	RecipeHandler      handlers.RecipeHandler
	MealPlanHandler    handlers.MealPlanHandler
	Middleware         middleware.Middleware
	JWTService         jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.MetricsMiddleware())
	c.GuestRoute()
	c.Inventory()
	c.ConsumptionLogs()
	c.Cooking()
	c.Recipes()
	c.MealPlan()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (c *Config) Inventory() {
	inventory := c.App.Group("/api/v1/inventory", c.Middleware.AuthMiddleware(c.JWTService))
	inventory.Get("", c.InventoryHandler.GetInventory)
	inventory.Post("", c.InventoryHandler.AddItems)
	inventory.Delete("/:id", c.InventoryHandler.RemoveItem)

	// scanning
	inventory.Post("/scan", c.InventoryHandler.ScanImage)
	inventory.Get("/barcode/:code", c.InventoryHandler.LookupBarcode)
	inventory.Post("/expiry-digest", c.InventoryHandler.SendExpiryDigest)
}

func (c *Config) ConsumptionLogs() {
	logs := c.App.Group("/api/v1/consumption-logs", c.Middleware.AuthMiddleware(c.JWTService))
	logs.Get("/stats", c.ConsumptionHandler.GetStats)
	logs.Get("", c.ConsumptionHandler.GetLogs)
	logs.Post("", c.ConsumptionHandler.AddLog)
	logs.Patch("/:id", c.ConsumptionHandler.UpdateLog)
	logs.Delete("/:id", c.ConsumptionHandler.DeleteLog)
}

func (c *Config) Cooking() {
	cooking := c.App.Group("/api/v1/cooking", c.Middleware.AuthMiddleware(c.JWTService))
	cooking.Post("/suggestions", c.CookingHandler.SuggestDeductions)
	cooking.Post("/confirm", c.CookingHandler.ConfirmCooking)
	cooking.Get("/sessions", c.CookingHandler.GetSessions)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))
	recipes.Get("/suggestions", c.RecipeHandler.GetRecipeRecommendations)
	recipes.Get("", c.RecipeHandler.GetLatestRecipes)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
}

func (c *Config) MealPlan() {
	mealPlan := c.App.Group("/api/v1/meal-plan", c.Middleware.AuthMiddleware(c.JWTService))
	mealPlan.Get("", c.MealPlanHandler.GetMealPlan)
	mealPlan.Post("", c.MealPlanHandler.AddMeal)
	mealPlan.Patch("/:id", c.MealPlanHandler.UpdateMeal)
	mealPlan.Delete("/:id", c.MealPlanHandler.DeleteMeal)
	mealPlan.Post("/:id/leftover", c.MealPlanHandler.SaveLeftover)
}
