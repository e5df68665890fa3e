package handlers

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/internal/api/presenters"
	"MatSmart-Lager/pkg/inventory"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const maxScanImageSize = 10 << 20

type (
	InventoryHandler interface {
		GetInventory(c *fiber.Ctx) error
		AddItems(c *fiber.Ctx) error
		RemoveItem(c *fiber.Ctx) error
		ScanImage(c *fiber.Ctx) error
		LookupBarcode(c *fiber.Ctx) error
		SendExpiryDigest(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *inventoryHandler) GetInventory(c *fiber.Ctx) error {
	res, err := h.inventoryService.GetInventory(c.UserContext(), userIDFrom(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetInventory, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetInventory)
}

func (h *inventoryHandler) AddItems(c *fiber.Ctx) error {
	req := new(domain.AddItemsRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItems, err)
	}

	added, err := h.inventoryService.AddItems(c.UserContext(), userIDFrom(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddItems, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"added": added}, fiber.StatusCreated, domain.MessageSuccessAddItems)
}

func (h *inventoryHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.inventoryService.RemoveItem(c.UserContext(), userIDFrom(c), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRemoveItem, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveItem)
}

func (h *inventoryHandler) ScanImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if file.Size > maxScanImageSize {
		return presenters.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, domain.MessageFailedAnalyzeImage, domain.ErrInvalidImageFormat)
	}

	f, err := file.Open()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyzeImage, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyzeImage, err)
	}

	res, err := h.inventoryService.AnalyzeImage(c.UserContext(), userIDFrom(c), data, file.Filename, file.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAnalyzeImage, err)
	}
	message := domain.MessageSuccessAnalyzeImage
	if len(res.Items) == 0 {
		message = domain.MessageInventoryEmptyForScan
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}

func (h *inventoryHandler) LookupBarcode(c *fiber.Ctx) error {
	item, err := h.inventoryService.LookupBarcode(c.UserContext(), c.Params("code"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedLookupBarcode, err)
	}
	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessLookupBarcode)
}

func (h *inventoryHandler) SendExpiryDigest(c *fiber.Ctx) error {
	req := new(domain.ExpiryDigestRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendDigest, err)
	}

	email, _ := c.Locals("email").(string)
	res, err := h.inventoryService.SendExpiryDigest(c.UserContext(), userIDFrom(c), email, req.Days)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSendDigest, err)
	}
	message := domain.MessageSuccessSendDigest
	if res.ItemCount == 0 {
		message = domain.MessageNoExpiringItemsInRange
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}
