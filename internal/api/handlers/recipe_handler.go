package handlers

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/internal/api/presenters"
	"MatSmart-Lager/pkg/recipe"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipeRecommendations(c *fiber.Ctx) error
		GetLatestRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) GetRecipeRecommendations(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeRecommendations(c.UserContext(), userIDFrom(c))
	if err != nil {
		if errors.Is(err, domain.ErrNoIngredients) {
			return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageNoIngredients)
		}
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSuggestRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSuggestRecipes)
}

func (h *recipeHandler) GetLatestRecipes(c *fiber.Ctx) error {
	res := h.recipeService.GetLatestRecipes(c.UserContext(), userIDFrom(c))
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID := c.Params("id")
	if recipeID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipeDetail, domain.ErrRecipeNotFound)
	}

	res, err := h.recipeService.GetRecipeDetail(c.UserContext(), userIDFrom(c), recipeID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}
