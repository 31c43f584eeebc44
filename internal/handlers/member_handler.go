package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
)

type MemberHandler struct {
	memberService *services.MemberService
}

func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (h *MemberHandler) Add(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	resp, err := h.memberService.AddMember(c.UserContext(), caller, &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Replace is the PUT form of Update: the core fields are mandatory.
func (h *MemberHandler) Replace(c *fiber.Ctx) error {
	return h.update(c, true)
}

func (h *MemberHandler) Update(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *MemberHandler) update(c *fiber.Ctx, full bool) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return RespondError(c, err)
	}
	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	resp, err := h.memberService.UpdateMember(c.UserContext(), caller, id, &req, full)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *MemberHandler) MyFamily(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	resp, err := h.memberService.MyFamily(c.UserContext(), caller)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *MemberHandler) Get(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	resp, err := h.memberService.Get(c.UserContext(), caller, authctx.GetRole(c) == models.IdentityRoleAdmin, id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *MemberHandler) TransferHead(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	resp, err := h.memberService.TransferHead(c.UserContext(), caller, id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}
