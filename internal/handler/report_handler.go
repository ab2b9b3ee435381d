package handler

import (
	"bytes"
	"fmt"
	"time"

	"go-inventory-pos/internal/render"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
	now     func() time.Time
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s, now: time.Now}
}

// GET /reportes/ventas/diario?fecha
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	report, err := h.service.DailyReport(c.UserContext(), c.Query("fecha"))
	if err != nil {
		return fail(c, err, msgReport)
	}
	return c.JSON(fiber.Map{"ok": true, "reporte": report})
}

// GET /reportes/ventas/diario/csv?fecha
func (h *ReportHandler) DailyCSV(c *fiber.Ctx) error {
	date := c.Query("fecha")
	rows, err := h.service.DailyCSV(c.UserContext(), date)
	if err != nil {
		return fail(c, err, msgCSV)
	}

	var buf bytes.Buffer
	if err := render.DailyCSV(&buf, rows); err != nil {
		return fail(c, err, msgCSV)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=reporte_%s.csv", date))
	return c.Send(buf.Bytes())
}

// GET /reportes/ventas/diario/pdf?fecha
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	report, err := h.service.DailyReport(c.UserContext(), c.Query("fecha"))
	if err != nil {
		return fail(c, err, msgPDF)
	}

	var buf bytes.Buffer
	if err := render.DailyReportPDF(&buf, report, h.service.Location(), h.now()); err != nil {
		return fail(c, err, msgPDF)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=reporte_ventas_%s.pdf", report.Date))
	return c.Send(buf.Bytes())
}

// GET /reportes/ventas/rango?fecha_inicio&fecha_fin
func (h *ReportHandler) Range(c *fiber.Ctx) error {
	report, err := h.service.RangeReport(c.UserContext(), c.Query("fecha_inicio"), c.Query("fecha_fin"))
	if err != nil {
		return fail(c, err, msgReport)
	}
	return c.JSON(fiber.Map{
		"ok":                 true,
		"rango":              report.Range,
		"resumen":            report.Summary,
		"productos_vendidos": report.Products,
		"ventas_por_dia":     report.PerDay,
	})
}

// GET /reportes/productos/mas-vendidos?limit
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	products, err := h.service.TopProducts(c.UserContext(), c.Query("limit"))
	if err != nil {
		return fail(c, err, msgTopProducts)
	}
	return c.JSON(fiber.Map{"ok": true, "productos_mas_vendidos": products})
}

// GET /reportes/inventario?umbral
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	summary, err := h.service.Inventory(c.UserContext(), c.Query("umbral"))
	if err != nil {
		return fail(c, err, msgInventory)
	}
	return c.JSON(fiber.Map{"ok": true, "inventario": summary})
}
