package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health pings the database and reports the server clock.
// GET /
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		return fail(c, err, "Error conectando a la base de datos")
	}
	return c.JSON(fiber.Map{
		"ok":            true,
		"mensaje":       "API de inventario funcionando",
		"hora_servidor": time.Now().UTC(),
	})
}
