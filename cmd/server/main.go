package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/naobregon27/ClinicaFisioterapia/internal/config"
	"github.com/naobregon27/ClinicaFisioterapia/internal/database"
	"github.com/naobregon27/ClinicaFisioterapia/internal/logging"
	"github.com/naobregon27/ClinicaFisioterapia/internal/routes"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger := logging.NewLogger(cfg.AppEnv)
	defer func() {
		_ = zapLogger.Sync()
	}()

	db, err := database.Connect(context.Background(), cfg.DBUrl)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	app := fiber.New()

	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	routes.RegisterRoutes(app, db, zapLogger)

	zapLogger.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server failed to start", zap.Error(err))
	}
}
