package handler

import (
	"go-shopstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": stats})
}

func (h *DashboardHandler) GetMovementChart(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 366 {
		return c.Status(400).JSON(fiber.Map{"error": "days must be between 1 and 366"})
	}

	rows, err := h.service.GetMovementChart(days)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}
