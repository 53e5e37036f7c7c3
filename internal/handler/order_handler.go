package handler

import (
	"go-shopstock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder is the public checkout endpoint.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateOrder(&req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order placed", "data": order})
}

// GetOrderByRef lets a customer track an order without an account.
func (h *OrderHandler) GetOrderByRef(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByRef(c.Params("ref"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": order})
}

func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	status := c.Query("status")

	var shopID *uuid.UUID
	if scoped, ok := c.Locals("shop_id").(uuid.UUID); ok && scoped != uuid.Nil {
		shopID = &scoped
	} else if raw := c.Query("shop_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid shop ID"})
		}
		shopID = &parsed
	}

	orders, err := h.service.ListOrders(shopID, status)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": orders})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		return writeErr(c, err)
	}
	// A shop scoped token only sees orders fulfilled by its own shop
	if scoped, ok := c.Locals("shop_id").(uuid.UUID); ok && scoped != uuid.Nil {
		if order.ShopID == nil || *order.ShopID != scoped {
			return c.Status(403).JSON(fiber.Map{"error": "Order belongs to another shop"})
		}
	}
	return c.JSON(fiber.Map{"data": order})
}

type attachReceiptRequest struct {
	FileURL string `json:"file_url"`
}

// AttachReceipt registers a payment proof against a pending order. Public,
// the customer only needs the order id from checkout.
func (h *OrderHandler) AttachReceipt(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req attachReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	receipt, err := h.service.AttachReceipt(orderID, req.FileURL)
	if err != nil {
		return writeErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Receipt attached", "data": receipt})
}

type approveReceiptRequest struct {
	ShopID uuid.UUID `json:"shop_id"`
}

// ApproveReceipt confirms payment and books the sale against a shop's stock.
func (h *OrderHandler) ApproveReceipt(c *fiber.Ctx) error {
	receiptID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	var req approveReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	shopID := req.ShopID
	if scoped, ok := c.Locals("shop_id").(uuid.UUID); ok && scoped != uuid.Nil {
		shopID = scoped
	}

	order, err := h.service.ApproveReceipt(receiptID, shopID, getUserID(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Receipt approved", "data": order})
}

type rejectReceiptRequest struct {
	Notes string `json:"notes"`
}

func (h *OrderHandler) RejectReceipt(c *fiber.Ctx) error {
	receiptID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	var req rejectReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.RejectReceipt(receiptID, req.Notes, getUserID(c)); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Receipt rejected"})
}
