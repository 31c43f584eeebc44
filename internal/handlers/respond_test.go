package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
)

func TestRespondError_StatusByKind(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		field   string
	}{
		{"field", apperr.Field("dob", "must be a date"), fiber.StatusBadRequest, "must be a date", "dob"},
		{"auth", apperr.New(apperr.ErrAuth, "invalid otp"), fiber.StatusUnauthorized, "invalid otp", ""},
		{"forbidden", apperr.Forbidden("not your family"), fiber.StatusForbidden, "not your family", ""},
		{"not found", apperr.NotFound("member not found"), fiber.StatusNotFound, "member not found", ""},
		{"conflict", fmt.Errorf("wrapped: %w", apperr.Conflict("mobile taken")), fiber.StatusConflict, "wrapped: mobile taken", ""},
		{"invariant", apperr.Invariant("head elsewhere"), fiber.StatusUnprocessableEntity, "head elsewhere", ""},
		{"rate limit", apperr.New(apperr.ErrRateLimit, "slow down"), fiber.StatusTooManyRequests, "slow down", ""},
		{"internal", errors.New("db exploded"), fiber.StatusInternalServerError, "Internal server error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return RespondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.True(t, body.Error)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.field, body.Field)
		})
	}
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, bad := range []string{"/0", "/abc", "/-3"} {
		resp, err := app.Test(httptest.NewRequest("GET", bad, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, bad)
	}
}
