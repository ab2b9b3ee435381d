package handler

import (
	"fmt"
	"strconv"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Register creates a user. Open while no user exists, ADMIN-only afterwards.
// POST /usuarios/registro
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, msgRegister)
	}

	user, err := h.userService.Register(c.UserContext(), &req, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, msgRegister)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"mensaje": "Usuario registrado exitosamente",
		"usuario": user,
	})
}

// Login handles user authentication
// POST /usuarios/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, msgLogin)
	}

	userAgent := c.Get(fiber.HeaderUserAgent)
	if userAgent == "" {
		userAgent = "Desconocido"
	}

	result, err := h.authService.Authenticate(c.UserContext(), service.LoginRequest{
		Username:  req.Username,
		Password:  req.Password,
		IP:        c.IP(),
		UserAgent: userAgent,
	})
	if err != nil {
		return fail(c, err, msgLogin)
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"mensaje": "Inicio de sesión exitoso",
		"token":   result.Token,
		"usuario": result.User,
	})
}

// Logout revokes the token used for this request.
// POST /usuarios/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authService.Revoke(c.UserContext(), middleware.CurrentToken(c), user.ID); err != nil {
		return fail(c, err, msgLogout)
	}
	return c.JSON(fiber.Map{"ok": true, "mensaje": "Sesión cerrada correctamente"})
}

// LoginAttempts lists the login audit log.
// GET /usuarios/intentos-login?limit&exitoso
// GET /usuarios/intentos-login/:username?limit
func (h *AuthHandler) LoginAttempts(c *fiber.Ctx) error {
	filter := model.AttemptFilter{Username: c.Params("username"), Limit: 50}
	if filter.Username != "" {
		filter.Limit = 20
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, apperr.ErrInvalidPagination, msgGetAttempts)
		}
		filter.Limit = n
	}
	if v := c.Query("exitoso"); v != "" && filter.Username == "" {
		ok := v == "true"
		filter.Succeeded = &ok
	}
	if errs := validator.ValidateStruct(filter); len(errs) > 0 {
		return fail(c, apperr.ErrInvalidPagination, msgGetAttempts)
	}

	attempts, err := h.authService.LoginAttempts(c.UserContext(), filter)
	if err != nil {
		return fail(c, err, msgGetAttempts)
	}
	return c.JSON(fiber.Map{"ok": true, "total": len(attempts), "intentos": attempts})
}

// RevokedTokens lists the most recent logouts.
// GET /usuarios/tokens-revocados?limit
func (h *AuthHandler) RevokedTokens(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		return fail(c, apperr.ErrInvalidPagination, msgGetTokens)
	}

	tokens, err := h.authService.RevokedTokens(c.UserContext(), limit)
	if err != nil {
		return fail(c, err, msgGetTokens)
	}
	return c.JSON(fiber.Map{"ok": true, "total": len(tokens), "tokens_revocados": tokens})
}

// PurgeTokens deletes revoked tokens older than the retention window.
// DELETE /usuarios/limpiar-tokens
func (h *AuthHandler) PurgeTokens(c *fiber.Ctx) error {
	n, err := h.authService.PurgeExpiredRevocations(c.UserContext())
	if err != nil {
		return fail(c, err, msgCleanTokens)
	}
	return c.JSON(fiber.Map{
		"ok":         true,
		"eliminados": n,
		"mensaje":    fmt.Sprintf("Se eliminaron %d tokens antiguos", n),
	})
}
