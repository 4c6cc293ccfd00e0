package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"pipedesk/utils"
)

// Console roles carried in the token. The backend does not manage accounts;
// it only gates actions on the role claim the auth service issued.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

const claimsKey = "claims"

// Protected verifies the bearer token (or access_token cookie) and stores
// the claims for capability checks downstream.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var token string
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid authorization format",
				})
			}
			token = tokenParts[1]
		} else {
			token = c.Cookies("access_token")
			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authorization required",
				})
			}
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// CanView reports whether the request may read pipeline data. Any
// authenticated console role can view.
func CanView(c *fiber.Ctx) bool {
	_, ok := c.Locals(claimsKey).(*utils.Claims)
	return ok
}

// CanManage reports whether the request may mutate leads.
func CanManage(c *fiber.Ctx) bool {
	claims, ok := c.Locals(claimsKey).(*utils.Claims)
	if !ok {
		return false
	}
	return claims.Role == RoleAdmin || claims.Role == RoleManager
}

// RequireView rejects requests without a verified console identity before
// any read handler runs.
func RequireView() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CanView(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Viewing leads requires a console role",
			})
		}
		return c.Next()
	}
}

// RequireManage rejects viewers before any mutating handler runs.
func RequireManage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CanManage(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Managing leads requires the manager role",
			})
		}
		return c.Next()
	}
}
