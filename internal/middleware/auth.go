package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
)

// accessTokenType mirrors services.AccessTokenType; middleware must not
// import services.
const accessTokenType = "access"

// JWTProtected accepts HS256 access tokens carrying a subject.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return rejectToken(c)
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return rejectToken(c)
			}
			if typ, _ := claims["typ"].(string); typ != accessTokenType {
				return rejectToken(c)
			}
			if sub, _ := claims["sub"].(string); sub == "" {
				return rejectToken(c)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return rejectToken(c)
		},
	})
}

func rejectToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired token",
	})
}
