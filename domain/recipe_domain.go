package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessSuggestRecipes  = "recipe suggestions generated"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedSuggestRecipes  = "failed to suggest recipes"
	MessageNoIngredients         = "no ingredients available"

	ErrRecipeNotFound = errors.New("recipe not found")
	ErrNoIngredients  = errors.New("no ingredients available for recipe suggestions")
)

type (
	Recipe struct {
		ID                 string   `json:"id"`
		Title              string   `json:"title"`
		Description        string   `json:"description"`
		Ingredients        []string `json:"ingredients"`
		MissingIngredients []string `json:"missing_ingredients,omitempty"`
		Instructions       []string `json:"instructions"`
		CookTime           string   `json:"cook_time"`
	}

	RecipeSuggestionsResponse struct {
		Recipes       []Recipe `json:"recipes"`
		TotalRecipes  int      `json:"total_recipes"`
		ExpiringItems int      `json:"expiring_items"`
	}
)
