package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSuggestDeductions = "deduction suggestions generated"
	MessageSuccessConfirmCooking    = "cooking session saved"
	MessageSuccessGetSessions       = "cooking sessions retrieved successfully"
	MessageFailedSuggestDeductions  = "failed to suggest deductions"
	MessageFailedConfirmCooking     = "could not save cooking session"
	MessageFailedGetSessions        = "failed to retrieve cooking sessions"

	ErrReconcileFailed       = errors.New("could not save cooking session")
	ErrEmptyDishName         = errors.New("dish name must not be empty")
	ErrInventoryUnavailable  = errors.New("inventory is unavailable")
	ErrSuggestionUnavailable = errors.New("suggestion service unavailable, please try again")
)

type (
	CookingSession struct {
		ID        string               `json:"id"`
		UserID    string               `json:"user_id"`
		DishName  string               `json:"dish_name"`
		CreatedAt time.Time            `json:"created_at"`
		TotalCost float64              `json:"total_cost"`
		Notes     string               `json:"notes,omitempty"`
		Items     []CookingSessionItem `json:"items"`
	}

	CookingSessionItem struct {
		ID           string  `json:"id,omitempty"`
		SessionID    string  `json:"session_id"`
		ItemName     string  `json:"item_name"`
		QuantityUsed float64 `json:"quantity_used"`
		Unit         string  `json:"unit"`
		Cost         float64 `json:"cost"`
	}

	DeductionSuggestion struct {
		ItemID          string  `json:"item_id" validate:"required"`
		Name            string  `json:"name"`
		CurrentQuantity float64 `json:"current_quantity"`
		DeductAmount    float64 `json:"deduct_amount" validate:"gte=0"`
		Unit            string  `json:"unit"`
	}

	SuggestDeductionsRequest struct {
		Dish string `json:"dish" validate:"required,notblank"`
	}

	SuggestDeductionsResponse struct {
		Dish        string                `json:"dish"`
		Suggestions []DeductionSuggestion `json:"suggestions"`
	}

	ConfirmCookingRequest struct {
		DishName    string                `json:"dish_name" validate:"required,notblank"`
		Suggestions []DeductionSuggestion `json:"suggestions" validate:"dive"`
	}

	// ReconcileResult describes what a reconciliation committed. On failure it
	// still reports the steps that completed before the error.
	ReconcileResult struct {
		SessionID    string   `json:"session_id,omitempty"`
		TotalCost    float64  `json:"total_cost"`
		ItemsAdded   int      `json:"session_items_added"`
		ItemsUpdated int      `json:"inventory_updated"`
		ItemsRemoved int      `json:"inventory_removed"`
		LogsAdded    int      `json:"logs_added"`
		Skipped      []string `json:"skipped_item_ids,omitempty"`
	}
)
