package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	dashboardService    *services.DashboardService
}

func NewNotificationHandler(notificationService *services.NotificationService, dashboardService *services.DashboardService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, dashboardService: dashboardService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	list, err := h.notificationService.List(c.UserContext(), caller, limit, offset)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}

func (h *NotificationHandler) Get(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	n, err := h.notificationService.Get(c.UserContext(), caller, id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": n})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return RespondError(c, err)
	}
	var req dto.MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	n, err := h.notificationService.MarkRead(c.UserContext(), caller, id, req.IsRead)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": n})
}

func (h *NotificationHandler) Dashboard(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	resp, err := h.dashboardService.Summary(c.UserContext(), caller)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}
