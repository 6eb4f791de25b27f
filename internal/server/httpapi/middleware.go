package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mathrevise/backend/internal/server/auth"
	"github.com/mathrevise/backend/internal/server/models"
)

const claimsKey = "claims"

// requireAuth rejects requests without a valid bearer token and stores the
// parsed claims for downstream handlers.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// optionalAuth stores claims when a valid bearer token is present but lets
// anonymous requests through. Handlers decide what the claims permit.
func (s *Server) optionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			if claims, err := auth.ParseToken(token, s.jwtSecret); err == nil {
				c.Locals(claimsKey, claims)
			}
		}
		return c.Next()
	}
}

// requireLevel allows the request through only when the token's access level
// is one of the given levels. Must run after requireAuth.
func requireLevel(levels ...models.AccessLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFrom(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}
		for _, level := range levels {
			if claims.AccessLevel == level {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient access level",
		})
	}
}

func claimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}
