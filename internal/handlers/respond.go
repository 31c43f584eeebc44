package handlers

import (
	"errors"
	"strconv"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/logging"
)

var kindStatus = []struct {
	kind   error
	status int
}{
	{apperr.ErrValidation, fiber.StatusBadRequest},
	{apperr.ErrAuth, fiber.StatusUnauthorized},
	{apperr.ErrForbidden, fiber.StatusForbidden},
	{apperr.ErrNotFound, fiber.StatusNotFound},
	{apperr.ErrConflict, fiber.StatusConflict},
	{apperr.ErrInvariant, fiber.StatusUnprocessableEntity},
	{apperr.ErrRateLimit, fiber.StatusTooManyRequests},
}

// RespondError renders err with the status of its kind. Unclassified errors
// are logged and reported as a bare 500.
func RespondError(c *fiber.Ctx, err error) error {
	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) {
			return c.Status(ks.status).JSON(dto.ErrorResponse{
				Error: true, Message: errMessage(err), Field: apperr.FieldOf(err),
			})
		}
	}

	attrs := []any{"method", c.Method(), "path", c.Path(), "error", err}
	if rid, ok := c.Locals("requestid").(string); ok {
		attrs = append(attrs, "request_id", rid)
	}
	if id, ok := callerID(c); ok {
		attrs = append(attrs, "identity_id", id.String())
	}
	logging.Component("http").Error("request failed", attrs...)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

// errMessage drops the field prefix of field errors; the field travels
// separately in the response.
func errMessage(err error) string {
	var fe *apperr.FieldError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

func BadBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func callerID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := authctx.GetIdentityID(c)
	return id, err == nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Field(name, "must be a positive integer")
	}
	return uint(n), nil
}
