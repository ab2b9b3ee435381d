package middleware

import (
	"strings"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/obs"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	localUser  = "user"
	localToken = "token"
)

// bearerToken extracts <token> from "Authorization: Bearer <token>".
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func deny(c *fiber.Ctx, err error) error {
	e, ok := apperr.From(err)
	if !ok {
		obs.Logger.Error("auth check failed", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "error": "Error al verificar sesión"})
	}
	return c.Status(e.Kind.Status()).JSON(fiber.Map{"ok": false, "error": e.Message})
}

// RequireAuth verifies the bearer token and stores the identity and the raw
// token in the request locals.
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		identity, err := authService.Verify(c.UserContext(), token)
		if err != nil {
			return deny(c, err)
		}

		c.Locals(localUser, identity)
		c.Locals(localToken, token)
		return c.Next()
	}
}

// OptionalAuth resolves the identity when an Authorization header is sent and
// passes anonymous requests through untouched. A header carrying a bad token
// is still rejected.
func OptionalAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return RequireAuth(authService)(c)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := service.RequireRole(CurrentUser(c), role); err != nil {
			return deny(c, err)
		}
		return c.Next()
	}
}

// CurrentUser returns the identity set by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.Identity {
	id, _ := c.Locals(localUser).(*model.Identity)
	return id
}

// CurrentToken returns the bearer token accepted by RequireAuth.
func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}
