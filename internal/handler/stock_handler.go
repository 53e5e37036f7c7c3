package handler

import (
	"go-shopstock/internal/service"
	"go-shopstock/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	service service.InventoryService
}

func NewStockHandler(s service.InventoryService) *StockHandler {
	return &StockHandler{service: s}
}

// Helper to pull user info from JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// getShopScope resolves which shop the request operates on. Owners are
// pinned to the shop baked into their token; admins pass ?shop_id=.
func getShopScope(c *fiber.Ctx) (uuid.UUID, error) {
	if scoped, ok := c.Locals("shop_id").(uuid.UUID); ok && scoped != uuid.Nil {
		return scoped, nil
	}
	raw := c.Query("shop_id")
	if raw == "" {
		raw = c.Params("shopId")
	}
	return uuid.Parse(raw)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// shopScopeMismatch reports whether the caller's token is pinned to a shop
// other than entityShop. Admin tokens carry no scope and never mismatch.
func shopScopeMismatch(c *fiber.Ctx, entityShop uuid.UUID) bool {
	scoped, ok := c.Locals("shop_id").(uuid.UUID)
	return ok && scoped != uuid.Nil && scoped != entityShop
}

// writeErr maps typed domain errors onto HTTP statuses.
func writeErr(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

func (h *StockHandler) GetStockLevels(c *fiber.Ctx) error {
	shopID, err := getShopScope(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid or missing shop ID"})
	}

	levels, err := h.service.GetStockLevels(shopID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": levels})
}

func (h *StockHandler) GetMovements(c *fiber.Ctx) error {
	shopID, err := getShopScope(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid or missing shop ID"})
	}

	limit := c.QueryInt("limit", service.DefaultMovementLimit)
	offset := c.QueryInt("offset", 0)

	movements, err := h.service.ListMovements(shopID, limit, offset)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": movements})
}

func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var req service.RecordMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	// Owners may only write into their own shop
	if scoped, ok := c.Locals("shop_id").(uuid.UUID); ok && scoped != uuid.Nil {
		req.ShopID = scoped
	}
	req.Actor = getUserID(c)

	movement, err := h.service.RecordMovement(&req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Movement recorded", "data": movement})
}

type adjustStockRequest struct {
	ProductKey string `json:"product_key"`
	Delta      int    `json:"delta"`
	Note       string `json:"note"`
}

func (h *StockHandler) AdjustStock(c *fiber.Ctx) error {
	shopID, err := getShopScope(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid or missing shop ID"})
	}

	var req adjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.service.AdjustStock(shopID, req.ProductKey, req.Delta, req.Note, getUserID(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted", "data": movement})
}

type initProductRequest struct {
	ProductKey   string `json:"product_key"`
	ReorderLevel int    `json:"reorder_level"`
}

func (h *StockHandler) InitializeProduct(c *fiber.Ctx) error {
	shopID, err := getShopScope(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid or missing shop ID"})
	}

	var req initProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.ProductKey == "" {
		// No key means bootstrap the whole catalog for this shop
		if err := h.service.InitializeProducts(shopID, getUserID(c)); err != nil {
			return writeErr(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"message": "Catalog initialized"})
	}

	if err := h.service.InitializeProduct(shopID, req.ProductKey, req.ReorderLevel, getUserID(c)); err != nil {
		return writeErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product initialized"})
}

func (h *StockHandler) CreateReplenishment(c *fiber.Ctx) error {
	var req service.CreateReplenishmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if scoped, ok := c.Locals("shop_id").(uuid.UUID); ok && scoped != uuid.Nil {
		req.ShopID = scoped
	}
	req.Actor = getUserID(c)

	rep, err := h.service.CreateReplenishment(&req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Replenishment drafted", "data": rep})
}

func (h *StockHandler) ListReplenishments(c *fiber.Ctx) error {
	shopID, err := getShopScope(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid or missing shop ID"})
	}

	reps, err := h.service.ListReplenishments(shopID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": reps})
}

func (h *StockHandler) GetReplenishment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid replenishment ID"})
	}

	rep, err := h.service.GetReplenishment(id)
	if err != nil {
		return writeErr(c, err)
	}
	if shopScopeMismatch(c, rep.ShopID) {
		return c.Status(403).JSON(fiber.Map{"error": "Replenishment belongs to another shop"})
	}
	return c.JSON(fiber.Map{"data": rep})
}

func (h *StockHandler) ReceiveReplenishment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid replenishment ID"})
	}

	// Owners may only transition replenishments of their own shop
	existing, err := h.service.GetReplenishment(id)
	if err != nil {
		return writeErr(c, err)
	}
	if shopScopeMismatch(c, existing.ShopID) {
		return c.Status(403).JSON(fiber.Map{"error": "Replenishment belongs to another shop"})
	}

	rep, err := h.service.ReceiveReplenishment(id, getUserID(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Replenishment received", "data": rep})
}

func (h *StockHandler) CancelReplenishment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid replenishment ID"})
	}

	existing, err := h.service.GetReplenishment(id)
	if err != nil {
		return writeErr(c, err)
	}
	if shopScopeMismatch(c, existing.ShopID) {
		return c.Status(403).JSON(fiber.Map{"error": "Replenishment belongs to another shop"})
	}

	rep, err := h.service.CancelReplenishment(id, getUserID(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Replenishment cancelled", "data": rep})
}
