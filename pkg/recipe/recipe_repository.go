package recipe

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/pkg/store"
)

type (
	// RecipeRepository keeps the latest generated suggestions per owner so a
	// meal can reference a recipe by id after the fact.
	RecipeRepository interface {
		SaveLatest(userID string, recipes []domain.Recipe)
		GetLatest(userID string) []domain.Recipe
		GetRecipeByID(userID, id string) (domain.Recipe, bool)
	}

	recipeRepository struct {
		cache *store.OwnerCache[domain.Recipe]
	}
)

func NewRecipeRepository() RecipeRepository {
	return &recipeRepository{cache: store.NewOwnerCache[domain.Recipe]()}
}

func (r *recipeRepository) SaveLatest(userID string, recipes []domain.Recipe) {
	r.cache.Set(userID, recipes, nil)
}

func (r *recipeRepository) GetLatest(userID string) []domain.Recipe {
	recipes, _, _ := r.cache.Get(userID)
	return recipes
}

func (r *recipeRepository) GetRecipeByID(userID, id string) (domain.Recipe, bool) {
	recipes, _, _ := r.cache.Get(userID)
	for _, recipe := range recipes {
		if recipe.ID == id {
			return recipe, true
		}
	}
	return domain.Recipe{}, false
}
