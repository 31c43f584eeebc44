package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	resp, err := h.authService.SendOTP(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	resp, err := h.authService.VerifyOTP(c.UserContext(), &req, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	resp, err := h.authService.AdminLogin(c.UserContext(), &req, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
