package community

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/handlers"
)

type ContentHandler struct {
	service *ContentService
}

func NewContentHandler(service *ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) CreateEvent(c *fiber.Ctx) error {
	return h.create(c, h.service.CreateEvent)
}

func (h *ContentHandler) CreateNotice(c *fiber.Ctx) error {
	return h.create(c, h.service.CreateNotice)
}

func (h *ContentHandler) CreateAdvertisement(c *fiber.Ctx) error {
	return h.create(c, h.service.CreateAdvertisement)
}

type createFunc func(ctx context.Context, creator uuid.UUID, req *CreateContentRequest) (*ContentResponse, error)

func (h *ContentHandler) create(c *fiber.Ctx, fn createFunc) error {
	creator, err := authctx.GetIdentityID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	var req CreateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	resp, err := fn(c.UserContext(), creator, &req)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ContentHandler) ListEvents(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	resp, err := h.service.ListEvents(c.UserContext(), c.QueryBool("upcoming", false), limit, offset)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ContentHandler) ListNotices(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	resp, err := h.service.ListNotices(c.UserContext(), limit, offset)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ContentHandler) ListAdvertisements(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	resp, err := h.service.ListAdvertisements(c.UserContext(), limit, offset)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(resp)
}

func pagination(c *fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
