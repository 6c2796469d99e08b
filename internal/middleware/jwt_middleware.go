package middleware

import (
	"shopapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie is the cookie the access token travels in. Tokens are
// never read from headers.
const AccessTokenCookie = "access_token"

// UserIDKey is the locals key under which CurrentUser stores the
// authenticated user's ID.
const UserIDKey = "user_id"

// CurrentUser resolves the caller's identity from the access token
// cookie. A missing, invalid, or expired token is not an error: the
// request simply proceeds anonymously, so endpoints with optional auth
// stay reachable. Protected routes add AuthRequired on top.
func CurrentUser(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(AccessTokenCookie)
		if tokenString == "" {
			return c.Next()
		}

		claims, err := authService.ValidateToken(tokenString, services.TokenTypeAccess)
		if err != nil {
			// Invalid token downgrades to anonymous, never to a 401.
			return c.Next()
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// AuthRequired rejects requests that CurrentUser left anonymous.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" for anonymous
// requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
