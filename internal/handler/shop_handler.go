package handler

import (
	"go-shopstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ShopHandler struct {
	service service.ShopService
}

func NewShopHandler(s service.ShopService) *ShopHandler {
	return &ShopHandler{service: s}
}

func (h *ShopHandler) CreateShop(c *fiber.Ctx) error {
	var req service.CreateShopRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.Actor = getUserID(c)

	shop, err := h.service.CreateShop(&req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Shop created", "data": shop})
}

func (h *ShopHandler) ListShops(c *fiber.Ctx) error {
	shops, err := h.service.ListShops()
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": shops})
}

func (h *ShopHandler) GetShop(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shop ID"})
	}

	shop, err := h.service.GetShop(id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": shop})
}

// GetShopBySlug serves the public storefront lookup, no auth required.
func (h *ShopHandler) GetShopBySlug(c *fiber.Ctx) error {
	shop, err := h.service.GetShopBySlug(c.Params("slug"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": shop})
}

type activateShopRequest struct {
	Plan string `json:"plan"`
}

func (h *ShopHandler) ActivateShop(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shop ID"})
	}

	var req activateShopRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	shop, err := h.service.ActivateShop(id, req.Plan, getUserID(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Shop activated", "data": shop})
}

func (h *ShopHandler) SuspendShop(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shop ID"})
	}

	shop, err := h.service.SuspendShop(id, getUserID(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Shop suspended", "data": shop})
}

// GetMyShop returns the shop bound to the caller's token scope.
func (h *ShopHandler) GetMyShop(c *fiber.Ctx) error {
	shopID, err := getShopScope(c)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "No shop is linked to this account"})
	}

	shop, err := h.service.GetShop(shopID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": shop})
}
