package handler

import (
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return fail(c, err, msgGetProducts)
	}
	return c.JSON(fiber.Map{"ok": true, "productos": products})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, msgGetProduct)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err, msgGetProduct)
	}
	return c.JSON(fiber.Map{"ok": true, "producto": product})
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in model.ProductInput
	if err := parseBody(c, &in); err != nil {
		return fail(c, err, msgCreateProduct)
	}

	product, err := h.service.CreateProduct(c.UserContext(), &in, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, msgCreateProduct)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":       true,
		"mensaje":  "Producto creado exitosamente",
		"producto": product,
	})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, msgUpdateProduct)
	}

	var in model.ProductInput
	if err := parseBody(c, &in); err != nil {
		return fail(c, err, msgUpdateProduct)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &in, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, msgUpdateProduct)
	}

	return c.JSON(fiber.Map{
		"ok":       true,
		"mensaje":  "Producto actualizado exitosamente",
		"producto": product,
	})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, msgDeleteProduct)
	}

	product, err := h.service.DeleteProduct(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, msgDeleteProduct)
	}

	return c.JSON(fiber.Map{
		"ok":       true,
		"mensaje":  "Producto eliminado correctamente",
		"producto": product,
	})
}
