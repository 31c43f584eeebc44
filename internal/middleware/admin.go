package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

// AdminRequired admits a request when any of these hold:
// 1. the token carries the admin role claim
// 2. the token email is listed in ADMIN_EMAILS
// 3. the identity row has the admin role
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := emailSet(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		if role, _ := claims["role"].(string); role == models.IdentityRoleAdmin {
			return c.Next()
		}
		if email, _ := claims["email"].(string); email != "" {
			if _, ok := adminEmails[strings.ToLower(email)]; ok {
				return c.Next()
			}
		}

		sub, _ := claims["sub"].(string)
		if identityID, err := uuid.Parse(sub); err == nil {
			var identity models.Identity
			err := db.WithContext(c.UserContext()).Select("id", "role").
				First(&identity, "id = ?", identityID).Error
			if err == nil && identity.IsAdmin() {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func emailSet(csv string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.Split(csv, ",") {
		if e := strings.ToLower(strings.TrimSpace(part)); e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}
