package handlers

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/internal/api/presenters"
	"MatSmart-Lager/pkg/consumption"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ConsumptionHandler interface {
		GetLogs(c *fiber.Ctx) error
		AddLog(c *fiber.Ctx) error
		UpdateLog(c *fiber.Ctx) error
		DeleteLog(c *fiber.Ctx) error
		GetStats(c *fiber.Ctx) error
	}

	consumptionHandler struct {
		consumptionService consumption.ConsumptionService
		validator          *validator.Validate
	}
)

func NewConsumptionHandler(consumptionService consumption.ConsumptionService, validator *validator.Validate) ConsumptionHandler {
	return &consumptionHandler{
		consumptionService: consumptionService,
		validator:          validator,
	}
}

func (h *consumptionHandler) GetLogs(c *fiber.Ctx) error {
	logs, err := h.consumptionService.GetLogs(c.UserContext(), userIDFrom(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetLogs, err)
	}
	return presenters.SuccessResponse(c, logs, fiber.StatusOK, domain.MessageSuccessGetLogs)
}

func (h *consumptionHandler) AddLog(c *fiber.Ctx) error {
	req := new(domain.ManualLogRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddLog, err)
	}

	if err := h.consumptionService.AddManualLog(c.UserContext(), userIDFrom(c), *req); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddLog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessAddLog)
}

func (h *consumptionHandler) UpdateLog(c *fiber.Ctx) error {
	req := new(domain.UpdateLogRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLog, err)
	}

	if err := h.consumptionService.UpdateLog(c.UserContext(), userIDFrom(c), c.Params("id"), *req); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateLog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateLog)
}

func (h *consumptionHandler) DeleteLog(c *fiber.Ctx) error {
	if err := h.consumptionService.DeleteLog(c.UserContext(), userIDFrom(c), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteLog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteLog)
}

func (h *consumptionHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.consumptionService.GetStats(c.UserContext(), userIDFrom(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetStats, err)
	}
	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetStats)
}
