package handler

import (
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers returns all users, newest first
// GET /usuarios
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return fail(c, err, msgGetUsers)
	}
	return c.JSON(fiber.Map{"ok": true, "usuarios": users})
}

// GetUser returns a single user by ID
// GET /usuarios/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, msgGetUser)
	}

	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err, msgGetUser)
	}
	return c.JSON(fiber.Map{"ok": true, "usuario": user})
}

// UpdateUser handles user update
// PUT /usuarios/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, msgUpdateUser)
	}

	var req model.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, msgUpdateUser)
	}

	user, err := h.userService.UpdateUser(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err, msgUpdateUser)
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"mensaje": "Usuario actualizado exitosamente",
		"usuario": user,
	})
}

// DeleteUser handles user deletion
// DELETE /usuarios/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, msgDeleteUser)
	}

	user, err := h.userService.DeleteUser(c.UserContext(), id)
	if err != nil {
		return fail(c, err, msgDeleteUser)
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"mensaje": "Usuario eliminado correctamente",
		"usuario": user,
	})
}
