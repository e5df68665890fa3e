package config

import (
	"MatSmart-Lager/internal/api/handlers"
	"MatSmart-Lager/internal/api/routes"
	"MatSmart-Lager/internal/middleware"
	"MatSmart-Lager/internal/utils"
	"MatSmart-Lager/internal/utils/mailing"
	"MatSmart-Lager/internal/utils/storage"
	"MatSmart-Lager/pkg/barcode"
	"MatSmart-Lager/pkg/consumption"
	"MatSmart-Lager/pkg/cooking"
	"MatSmart-Lager/pkg/gemini"
	"MatSmart-Lager/pkg/inventory"
	"MatSmart-Lager/pkg/jwt"
	"MatSmart-Lager/pkg/mealplan"
	"MatSmart-Lager/pkg/recipe"
	"MatSmart-Lager/pkg/store"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func NewApp(s store.Store) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		BodyLimit: 12 << 20,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("open access log: %w", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Europe/Stockholm",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	var s3 storage.AwsS3
	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		s3, err = storage.NewAwsS3()
		if err != nil {
			slog.Warn("scan images will not be stored", "err", err)
			s3 = nil
		}
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig())
	rpm, _ := strconv.Atoi(utils.GetConfig("GEMINI_RPM"))
	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:            utils.GetConfig("GEMINI_API_KEY"),
		Model:             utils.GetConfig("GEMINI_MODEL"),
		RequestsPerMinute: rpm,
	})
	barcodeLookup := barcode.NewLookup(utils.GetConfig("OPENFOODFACTS_URL"), nil)

	// Repository
	inventoryRepository := inventory.NewInventoryRepository(s)
	consumptionRepository := consumption.NewConsumptionRepository(s)
	sessionRepository := cooking.NewSessionRepository(s)
	recipeRepository := recipe.NewRecipeRepository()
	mealPlanRepository := mealplan.NewMealPlanRepository(s)

	// Service
	jwtService := jwt.NewJWTService()
	inventoryService := inventory.NewInventoryService(
		inventoryRepository,
		geminiClient,
		barcodeLookup,
		inventory.WithStorage(s3),
		inventory.WithMailer(mailer, utils.GetConfig("APP_URL")),
	)
	consumptionService := consumption.NewConsumptionService(consumptionRepository)
	reconciler := cooking.NewReconciler(inventoryRepository, consumptionRepository, sessionRepository)
	cookingService := cooking.NewCookingService(inventoryRepository, sessionRepository, reconciler, geminiClient)
	recipeService := recipe.NewRecipeService(recipeRepository, inventoryRepository, geminiClient)
	mealPlanService := mealplan.NewMealPlanService(mealPlanRepository, inventoryRepository)

	// Handler
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	consumptionHandler := handlers.NewConsumptionHandler(consumptionService, validator)
	cookingHandler := handlers.NewCookingHandler(cookingService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService, validator)

	// scheduled expiry digest
	var digestScheduler *inventory.DigestScheduler
	if spec := utils.GetConfig("EXPIRY_DIGEST_CRON"); spec != "" {
		recipients, err := inventory.ParseDigestRecipients(utils.GetConfig("EXPIRY_DIGEST_USERS"))
		if err != nil {
			return nil, err
		}
		days, _ := strconv.Atoi(utils.GetConfig("EXPIRY_DIGEST_DAYS"))
		digestScheduler = inventory.NewDigestScheduler(inventoryService, recipients, days)
		if err := digestScheduler.Start(spec); err != nil {
			return nil, err
		}
	}

	app.Hooks().OnShutdown(func() error {
		if digestScheduler != nil {
			digestScheduler.Stop()
		}
		inventoryRepository.Close()
		consumptionRepository.Close()
		return file.Close()
	})

	// routes
	routesConfig := routes.Config{
		App:                app,
		InventoryHandler:   inventoryHandler,
		ConsumptionHandler: consumptionHandler,
		CookingHandler:     cookingHandler,
		RecipeHandler:      recipeHandler,
		MealPlanHandler:    mealPlanHandler,
		Middleware:         middlewares,
		JWTService:         jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
