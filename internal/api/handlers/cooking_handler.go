package handlers

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/internal/api/presenters"
	"MatSmart-Lager/pkg/cooking"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CookingHandler interface {
		SuggestDeductions(c *fiber.Ctx) error
		ConfirmCooking(c *fiber.Ctx) error
		GetSessions(c *fiber.Ctx) error
	}

	cookingHandler struct {
		cookingService cooking.CookingService
		validator      *validator.Validate
	}
)

func NewCookingHandler(cookingService cooking.CookingService, validator *validator.Validate) CookingHandler {
	return &cookingHandler{
		cookingService: cookingService,
		validator:      validator,
	}
}

func (h *cookingHandler) SuggestDeductions(c *fiber.Ctx) error {
	req := new(domain.SuggestDeductionsRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSuggestDeductions, err)
	}

	res, err := h.cookingService.SuggestDeductions(c.UserContext(), userIDFrom(c), req.Dish)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSuggestDeductions, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSuggestDeductions)
}

// ConfirmCooking answers a failed reconciliation with 500 and the partial
// result so an orphaned session can be found.
func (h *cookingHandler) ConfirmCooking(c *fiber.Ctx) error {
	req := new(domain.ConfirmCookingRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConfirmCooking, err)
	}

	res, err := h.cookingService.Confirm(c.UserContext(), userIDFrom(c), *req)
	if err != nil {
		if errors.Is(err, domain.ErrReconcileFailed) {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedConfirmCooking, err, res)
		}
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedConfirmCooking, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessConfirmCooking)
}

func (h *cookingHandler) GetSessions(c *fiber.Ctx) error {
	sessions, err := h.cookingService.GetSessions(c.UserContext(), userIDFrom(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetSessions, err)
	}
	return presenters.SuccessResponse(c, sessions, fiber.StatusOK, domain.MessageSuccessGetSessions)
}
