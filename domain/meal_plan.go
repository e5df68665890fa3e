package domain

import "errors"

const (
	MealTypeBreakfast = "frukost"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "middag"
)

var (
	MealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner}

	MessageSuccessGetMealPlan  = "meal plan retrieved successfully"
	MessageSuccessAddMeal      = "meal added to plan"
	MessageSuccessUpdateMeal   = "meal updated"
	MessageSuccessDeleteMeal   = "meal removed from plan"
	MessageSuccessSaveLeftover = "leftover saved to inventory"
	MessageFailedGetMealPlan   = "failed to retrieve meal plan"
	MessageFailedAddMeal       = "failed to add meal"
	MessageFailedUpdateMeal    = "failed to update meal"
	MessageFailedDeleteMeal    = "failed to remove meal"
	MessageFailedSaveLeftover  = "failed to save leftover"

	ErrInvalidDateRange = errors.New("invalid date range, use YYYY-MM-DD and from <= to")
	ErrMealNotFound     = errors.New("meal not found")
	ErrEmptyMealPatch   = errors.New("no fields to update")
)

type (
	MealPlanItem struct {
		ID            string  `json:"id"`
		UserID        string  `json:"user_id"`
		Date          string  `json:"date"`
		MealType      string  `json:"meal_type"`
		Person        string  `json:"person"`
		RecipeID      *string `json:"recipe_id"`
		CustomDish    *string `json:"custom_dish"`
		ExtraServings int     `json:"extra_servings"`
		LeftoverName  *string `json:"leftover_name"`
		Notes         *string `json:"notes"`
	}

	AddMealRequest struct {
		Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
		MealType      string  `json:"meal_type" validate:"required,mealtype"`
		Person        string  `json:"person" validate:"required,notblank"`
		RecipeID      *string `json:"recipe_id"`
		CustomDish    *string `json:"custom_dish"`
		ExtraServings int     `json:"extra_servings" validate:"gte=0"`
		Notes         *string `json:"notes"`
	}

	UpdateMealRequest struct {
		Date          *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
		MealType      *string `json:"meal_type" validate:"omitempty,mealtype"`
		Person        *string `json:"person"`
		RecipeID      *string `json:"recipe_id"`
		CustomDish    *string `json:"custom_dish"`
		ExtraServings *int    `json:"extra_servings" validate:"omitempty,gte=0"`
		LeftoverName  *string `json:"leftover_name"`
		Notes         *string `json:"notes"`
	}

	SaveLeftoverRequest struct {
		Name       string  `json:"name" validate:"required,notblank"`
		Quantity   float64 `json:"quantity" validate:"omitempty,gt=0"`
		Unit       string  `json:"unit" validate:"omitempty,unit"`
		ExpiryDate string  `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	}
)
