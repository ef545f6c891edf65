package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	config "github.com/prasetyodwi/forklift_rental/configs"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.MustConfig("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": false, "message": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": false, "message": "Invalid or expired JWT"})
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CallerRole(c) != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "Access denied. Admin only.",
			})
		}
		return c.Next()
	}
}

func UserRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CallerRole(c) != "user" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "Access denied. User only.",
			})
		}
		return c.Next()
	}
}

func callerClaims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, _ := token.Claims.(jwt.MapClaims)
	return claims
}

// CallerID returns the authenticated user's id from the JWT claims.
func CallerID(c *fiber.Ctx) uuid.UUID {
	claims := callerClaims(c)
	idStr, _ := claims["user_id"].(string)
	id, _ := uuid.Parse(idStr)
	return id
}

func CallerRole(c *fiber.Ctx) string {
	claims := callerClaims(c)
	role, _ := claims["role"].(string)
	return role
}

// IsAdmin reports whether the caller bypasses ownership checks.
func IsAdmin(c *fiber.Ctx) bool {
	return CallerRole(c) == "admin"
}
