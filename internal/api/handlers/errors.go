package handlers

import (
	"MatSmart-Lager/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP status codes. Unknown errors are
// treated as upstream failures of the record store.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingOwner),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInventoryItemNotFound),
		errors.Is(err, domain.ErrBarcodeNotFound),
		errors.Is(err, domain.ErrLogNotFound),
		errors.Is(err, domain.ErrMealNotFound),
		errors.Is(err, domain.ErrRecipeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrEmptyItemName),
		errors.Is(err, domain.ErrInvalidLogDate),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrEmptyLogPatch),
		errors.Is(err, domain.ErrEmptyMealPatch),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrEmptyDishName),
		errors.Is(err, domain.ErrInvalidBarcode),
		errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, domain.ErrNoItemsToAdd),
		errors.Is(err, domain.ErrMissingEmail):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrSuggestionUnavailable),
		errors.Is(err, domain.ErrMailNotConfigured):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}

func userIDFrom(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
