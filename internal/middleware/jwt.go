package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/auth"
	"github.com/okapibank/okapi/internal/user"
)

// JWTAuth validates bearer tokens and rejects principals that no longer exist
// or have been deactivated. Every failure is a plain 401 so clients treat all
// of them as an ended session.
func JWTAuth(issuer *auth.Issuer, repo user.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		claims, err := issuer.Verify(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		u, err := repo.FindByID(c.UserContext(), claims.Subject)
		if err != nil || !u.Active {
			return fiber.NewError(http.StatusUnauthorized, "token invalidated")
		}

		c.Locals(user.LocalUserID, u.ID)
		c.Locals(user.LocalRole, u.Role)
		return c.Next()
	}
}

// RequireRole gates a route group to principals carrying the given role.
// Runs after JWTAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got, _ := c.Locals(user.LocalRole).(string)
		if got != role {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
