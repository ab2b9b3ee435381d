package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-pos/internal/config"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/obs"
	"go-inventory-pos/internal/server"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/database"
	"go-inventory-pos/pkg/jwt"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	model.PasswordCost = cfg.BcryptCost
	if cfg.UsesDefaultSecret() {
		obs.Logger.Warn("JWT_SECRET not set, using the development default")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		obs.Logger.Error("database unavailable", "err", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		obs.Logger.Error("migration failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 4. Wiring
	opts := server.Options{
		DB:             db,
		Hub:            wsHub,
		Signer:         jwt.NewSigner(cfg.JWTSecret, cfg.JWTExpires),
		TokenRetention: cfg.TokenRetention,
		ReportLocation: cfg.ReportLocation,
		CORSOrigins:    cfg.CORSOrigins,
		AccessLog:      true,
	}
	svc := server.NewServices(opts)
	seedAdmin(ctx, svc.Users, cfg)

	app := server.NewApp(opts, svc)

	// 5. Graceful Shutdown
	go func() {
		obs.Logger.Info("server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			obs.Logger.Error("listen failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	obs.Logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		obs.Logger.Error("server forced to shutdown", "err", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	obs.Logger.Info("server exited")
}

// seedAdmin creates the bootstrap ADMIN when SEED_ADMIN_USERNAME and
// SEED_ADMIN_PASSWORD are set and no user exists yet.
func seedAdmin(ctx context.Context, users service.UserService, cfg config.Config) {
	if cfg.SeedAdminUsername == "" || cfg.SeedAdminPassword == "" {
		return
	}
	n, err := users.Count(ctx)
	if err != nil {
		obs.Logger.Warn("seed admin: count users", "err", err)
		return
	}
	if n > 0 {
		return
	}

	_, err = users.Register(ctx, &model.RegisterRequest{
		Username: cfg.SeedAdminUsername,
		Password: cfg.SeedAdminPassword,
		Role:     model.RoleAdmin,
	}, nil)
	if err != nil {
		obs.Logger.Warn("seed admin failed", "err", err)
		return
	}
	obs.Logger.Info("admin user created", "username", cfg.SeedAdminUsername)
}
