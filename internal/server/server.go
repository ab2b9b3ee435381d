// Package server builds the fiber application and its route table.
package server

import (
	"strings"
	"time"

	"go-inventory-pos/internal/handler"
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Options configures NewApp.
type Options struct {
	DB             *gorm.DB
	Hub            *ws.Hub
	Signer         *jwt.Signer
	TokenRetention time.Duration
	ReportLocation *time.Location
	CORSOrigins    string
	// AccessLog enables the per-request log line.
	AccessLog bool
}

// Services are the business components behind the routes.
type Services struct {
	Auth    service.AuthService
	Users   service.UserService
	Catalog service.CatalogService
	Sales   service.SaleService
	Reports service.ReportService
}

// NewServices wires repositories into services.
func NewServices(opts Options) Services {
	productRepo := repository.NewProductRepo(opts.DB)
	userRepo := repository.NewUserRepo(opts.DB)
	saleRepo := repository.NewSaleRepo(opts.DB)
	reportRepo := repository.NewReportRepo(opts.DB)
	auditRepo := repository.NewAuthAuditRepo(opts.DB)

	return Services{
		Auth:    service.NewAuthService(userRepo, auditRepo, opts.Signer, opts.TokenRetention),
		Users:   service.NewUserService(userRepo),
		Catalog: service.NewCatalogService(productRepo, opts.Hub),
		Sales:   service.NewSaleService(opts.DB, productRepo, saleRepo, opts.Hub, opts.ReportLocation),
		Reports: service.NewReportService(reportRepo, opts.ReportLocation),
	}
}

// NewApp returns the configured fiber app with every route mounted.
func NewApp(opts Options, svc Services) *fiber.App {
	loc := opts.ReportLocation
	if loc == nil {
		loc = time.UTC
	}

	healthHandler := handler.NewHealthHandler(opts.DB)
	authHandler := handler.NewAuthHandler(svc.Auth, svc.Users)
	userHandler := handler.NewUserHandler(svc.Users)
	productHandler := handler.NewProductHandler(svc.Catalog)
	saleHandler := handler.NewSaleHandler(svc.Sales, loc)
	reportHandler := handler.NewReportHandler(svc.Reports)

	app := fiber.New(fiber.Config{
		AppName:      "Inventario POS",
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(opts.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	requireAuth := middleware.RequireAuth(svc.Auth)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	app.Get("/", healthHandler.Health)

	// ============ USERS & SESSIONS ============
	usuarios := app.Group("/usuarios")
	usuarios.Post("/registro", middleware.OptionalAuth(svc.Auth), authHandler.Register)
	usuarios.Post("/login", authHandler.Login)
	usuarios.Post("/logout", requireAuth, authHandler.Logout)
	usuarios.Get("/intentos-login", requireAuth, adminOnly, authHandler.LoginAttempts)
	usuarios.Get("/intentos-login/:username", requireAuth, adminOnly, authHandler.LoginAttempts)
	usuarios.Get("/tokens-revocados", requireAuth, adminOnly, authHandler.RevokedTokens)
	usuarios.Delete("/limpiar-tokens", requireAuth, adminOnly, authHandler.PurgeTokens)
	usuarios.Get("/", requireAuth, adminOnly, userHandler.GetUsers)
	usuarios.Get("/:id", requireAuth, adminOnly, userHandler.GetUser)
	usuarios.Put("/:id", requireAuth, adminOnly, userHandler.UpdateUser)
	usuarios.Delete("/:id", requireAuth, adminOnly, userHandler.DeleteUser)

	// ============ CATALOG ============
	productos := app.Group("/productos", requireAuth)
	productos.Get("/", productHandler.GetProducts)
	productos.Get("/:id", productHandler.GetProduct)
	productos.Post("/", adminOnly, productHandler.CreateProduct)
	productos.Put("/:id", adminOnly, productHandler.UpdateProduct)
	productos.Delete("/:id", adminOnly, productHandler.DeleteProduct)

	// ============ SALES ============
	ventas := app.Group("/ventas", requireAuth)
	ventas.Post("/", saleHandler.CreateSale)
	ventas.Get("/", saleHandler.GetSales)
	ventas.Get("/:id", saleHandler.GetSale)
	ventas.Get("/:id/ticket-pdf", saleHandler.Ticket)

	// ============ REPORTS ============
	reportes := app.Group("/reportes", requireAuth)
	reportes.Get("/ventas/diario", reportHandler.Daily)
	reportes.Get("/ventas/diario/csv", reportHandler.DailyCSV)
	reportes.Get("/ventas/diario/pdf", reportHandler.DailyPDF)
	reportes.Get("/ventas/rango", reportHandler.Range)
	reportes.Get("/productos/mas-vendidos", reportHandler.TopProducts)
	reportes.Get("/inventario", reportHandler.Inventory)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(opts.Hub.Serve))

	return app
}
