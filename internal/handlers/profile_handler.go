package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get serves GET /profile/:identity_id. Members may only read their own
// profile; admins may read any.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	target, err := uuid.Parse(c.Params("identity_id"))
	if err != nil {
		return RespondError(c, apperr.Field("identity_id", "must be a UUID"))
	}
	if target != caller && authctx.GetRole(c) != models.IdentityRoleAdmin {
		return RespondError(c, services.ErrProfileForbidden)
	}

	resp, err := h.profileService.Get(c.UserContext(), target)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}
	var req dto.ProfilePayload
	if err := c.BodyParser(&req); err != nil {
		return BadBody(c)
	}

	resp, err := h.profileService.Save(c.UserContext(), caller, &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}
