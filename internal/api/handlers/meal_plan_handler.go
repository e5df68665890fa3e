package handlers

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/internal/api/presenters"
	"MatSmart-Lager/pkg/mealplan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MealPlanHandler interface {
		GetMealPlan(c *fiber.Ctx) error
		AddMeal(c *fiber.Ctx) error
		UpdateMeal(c *fiber.Ctx) error
		DeleteMeal(c *fiber.Ctx) error
		SaveLeftover(c *fiber.Ctx) error
	}

	mealPlanHandler struct {
		mealPlanService mealplan.MealPlanService
		validator       *validator.Validate
	}
)

func NewMealPlanHandler(mealPlanService mealplan.MealPlanService, validator *validator.Validate) MealPlanHandler {
	return &mealPlanHandler{
		mealPlanService: mealPlanService,
		validator:       validator,
	}
}

func (h *mealPlanHandler) GetMealPlan(c *fiber.Ctx) error {
	meals, err := h.mealPlanService.GetMealPlan(c.UserContext(), userIDFrom(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetMealPlan, err)
	}
	return presenters.SuccessResponse(c, meals, fiber.StatusOK, domain.MessageSuccessGetMealPlan)
}

func (h *mealPlanHandler) AddMeal(c *fiber.Ctx) error {
	req := new(domain.AddMealRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddMeal, err)
	}

	meal, err := h.mealPlanService.AddMeal(c.UserContext(), userIDFrom(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddMeal, err)
	}
	return presenters.SuccessResponse(c, meal, fiber.StatusCreated, domain.MessageSuccessAddMeal)
}

func (h *mealPlanHandler) UpdateMeal(c *fiber.Ctx) error {
	req := new(domain.UpdateMealRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}

	if err := h.mealPlanService.UpdateMeal(c.UserContext(), userIDFrom(c), c.Params("id"), *req); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateMeal, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateMeal)
}

func (h *mealPlanHandler) DeleteMeal(c *fiber.Ctx) error {
	if err := h.mealPlanService.DeleteMeal(c.UserContext(), userIDFrom(c), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteMeal, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteMeal)
}

func (h *mealPlanHandler) SaveLeftover(c *fiber.Ctx) error {
	req := new(domain.SaveLeftoverRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveLeftover, err)
	}

	if err := h.mealPlanService.SaveLeftover(c.UserContext(), userIDFrom(c), c.Params("id"), *req); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSaveLeftover, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessSaveLeftover)
}
