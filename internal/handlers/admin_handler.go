package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
)

type AdminHandler struct {
	memberService *services.MemberService
}

func NewAdminHandler(memberService *services.MemberService) *AdminHandler {
	return &AdminHandler{memberService: memberService}
}

func (h *AdminHandler) ListMembers(c *fiber.Ctx) error {
	filter := services.MemberFilter{
		Status: c.Query("status"),
		Search: c.Query("q"),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if raw := c.Query("family_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return RespondError(c, apperr.Field("family_id", "must be an integer"))
		}
		familyID := uint(id)
		filter.FamilyID = &familyID
	}

	members, total, err := h.memberService.AdminList(c.UserContext(), filter)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"data": members, "total": total})
}

func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return RespondError(c, err)
	}
	var req dto.MemberStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	resp, err := h.memberService.SetStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) MakeHead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	resp, err := h.memberService.MakeFamilyHead(c.UserContext(), id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) Import(c *fiber.Ctx) error {
	var req dto.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}
	if len(req.Members) == 0 {
		return RespondError(c, apperr.Field("members", "must not be empty"))
	}

	resp, err := h.memberService.Import(c.UserContext(), req.Members)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}
