package recipe

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/pkg/inventory"
	"context"
	"log/slog"
	"time"
)

// expiringSoonDays marks items that should be cooked first.
const expiringSoonDays = 3

type (
	RecipeService interface {
		GetRecipeRecommendations(ctx context.Context, userID string) (domain.RecipeSuggestionsResponse, error)
		GetLatestRecipes(ctx context.Context, userID string) domain.RecipeSuggestionsResponse
		GetRecipeDetail(ctx context.Context, userID, recipeID string) (domain.Recipe, error)
	}

	RecipeSuggester interface {
		SuggestRecipes(ctx context.Context, inventory []domain.InventoryItem, now time.Time) ([]domain.Recipe, error)
	}

	recipeService struct {
		recipeRepository    RecipeRepository
		inventoryRepository inventory.InventoryRepository
		suggester           RecipeSuggester
		now                 func() time.Time
	}
)

func NewRecipeService(recipeRepository RecipeRepository, inventoryRepository inventory.InventoryRepository, suggester RecipeSuggester) RecipeService {
	return &recipeService{
		recipeRepository:    recipeRepository,
		inventoryRepository: inventoryRepository,
		suggester:           suggester,
		now:                 time.Now,
	}
}

func (s *recipeService) GetRecipeRecommendations(ctx context.Context, userID string) (domain.RecipeSuggestionsResponse, error) {
	empty := domain.RecipeSuggestionsResponse{Recipes: []domain.Recipe{}}

	items, err := s.inventoryRepository.List(ctx, userID)
	if err != nil {
		return empty, err
	}
	if len(items) == 0 {
		return empty, domain.ErrNoIngredients
	}

	now := s.now()
	expiring := len(inventory.ExpiringWithin(items, now, expiringSoonDays))

	recipes, err := s.suggester.SuggestRecipes(ctx, items, now)
	if err != nil {
		slog.Error("recipe suggestion failed", "user_id", userID, "err", err)
		empty.ExpiringItems = expiring
		return empty, domain.ErrSuggestionUnavailable
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	s.recipeRepository.SaveLatest(userID, recipes)

	return domain.RecipeSuggestionsResponse{
		Recipes:       recipes,
		TotalRecipes:  len(recipes),
		ExpiringItems: expiring,
	}, nil
}

func (s *recipeService) GetLatestRecipes(ctx context.Context, userID string) domain.RecipeSuggestionsResponse {
	recipes := s.recipeRepository.GetLatest(userID)
	return domain.RecipeSuggestionsResponse{
		Recipes:      recipes,
		TotalRecipes: len(recipes),
	}
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, userID, recipeID string) (domain.Recipe, error) {
	recipe, ok := s.recipeRepository.GetRecipeByID(userID, recipeID)
	if !ok {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}
	return recipe, nil
}
