package handler

import (
	"bytes"
	"fmt"
	"time"

	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/render"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
	loc     *time.Location
}

func NewSaleHandler(s service.SaleService, loc *time.Location) *SaleHandler {
	return &SaleHandler{service: s, loc: loc}
}

// CreateSale processes a cart for the authenticated cashier.
// POST /ventas
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var in model.SaleInput
	if err := parseBody(c, &in); err != nil {
		return fail(c, err, msgProcessSale)
	}

	sale, err := h.service.ProcessSale(c.UserContext(), &in, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, msgProcessSale)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"mensaje": "Venta registrada exitosamente",
		"venta":   sale,
	})
}

// GET /ventas?page&limit&fecha_inicio&fecha_fin
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	page, err := h.service.GetSales(c.UserContext(), service.SaleQuery{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		StartDate: c.Query("fecha_inicio"),
		EndDate:   c.Query("fecha_fin"),
	})
	if err != nil {
		return fail(c, err, msgGetSales)
	}

	return c.JSON(fiber.Map{
		"ok":     true,
		"pagina": page.Page,
		"limite": page.Limit,
		"total":  page.Total,
		"ventas": page.Sales,
	})
}

// GET /ventas/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, msgGetSale)
	}

	sale, err := h.service.GetSaleByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err, msgGetSale)
	}
	return c.JSON(fiber.Map{"ok": true, "venta": sale})
}

// GET /ventas/:id/ticket-pdf
func (h *SaleHandler) Ticket(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, msgTicket)
	}

	sale, err := h.service.GetSaleByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err, msgTicket)
	}

	var buf bytes.Buffer
	if err := render.SaleTicket(&buf, sale, h.loc); err != nil {
		return fail(c, err, msgTicket)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=ticket_%s.pdf", sale.TransactionNumber))
	return c.Send(buf.Bytes())
}
