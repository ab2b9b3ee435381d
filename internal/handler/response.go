package handler

import (
	"errors"
	"strconv"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/obs"

	"github.com/gofiber/fiber/v2"
)

// Generic messages returned when a route fails unexpectedly.
const (
	msgRegister      = "Error al registrar usuario"
	msgLogin         = "Error en login"
	msgLogout        = "Error al cerrar sesión"
	msgGetUsers      = "Error al obtener usuarios"
	msgGetUser       = "Error al obtener usuario"
	msgUpdateUser    = "Error al actualizar usuario"
	msgDeleteUser    = "Error al eliminar usuario"
	msgGetAttempts   = "Error al obtener intentos de login"
	msgGetTokens     = "Error al obtener tokens"
	msgCleanTokens   = "Error al limpiar tokens"
	msgGetProducts   = "Error al obtener productos"
	msgGetProduct    = "Error al obtener producto"
	msgCreateProduct = "Error al crear producto"
	msgUpdateProduct = "Error al actualizar producto"
	msgDeleteProduct = "Error al eliminar producto"
	msgProcessSale   = "Error al procesar venta"
	msgGetSales      = "Error al obtener ventas"
	msgGetSale       = "Error al obtener venta"
	msgTicket        = "Error al generar ticket"
	msgReport        = "Error al generar reporte de ventas"
	msgCSV           = "Error al generar reporte CSV"
	msgPDF           = "Error al generar PDF"
	msgTopProducts   = "Error al obtener productos más vendidos"
	msgInventory     = "Error al obtener resumen de inventario"
)

// fail writes the error envelope. Expected failures keep their own status and
// message; anything else is logged and reported as a 500 with msg.
func fail(c *fiber.Ctx, err error, msg string) error {
	if e, ok := apperr.From(err); ok {
		return c.Status(e.Kind.Status()).JSON(fiber.Map{"ok": false, "error": e.Message})
	}
	obs.Logger.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"err", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "error": msg})
}

// ErrorHandler is the fiber fallback for errors returned by handlers and
// middleware, including unknown routes and recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"ok": false, "error": fe.Message})
	}
	return fail(c, err, "Error interno del servidor")
}

// parseID reads a positive numeric :id route parameter.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ErrInvalidID
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.ErrInvalidBody
	}
	return nil
}
