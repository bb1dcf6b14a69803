package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"tour-engine/internal/common/config"
	"tour-engine/internal/common/middleware"
	"tour-engine/internal/tour/assets"
	"tour-engine/internal/tour/catalog"
	"tour-engine/internal/tour/handlers"
	"tour-engine/internal/tour/preload"
	"tour-engine/internal/tour/scene"
	"tour-engine/internal/tour/session"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Tour Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	cat, err := catalog.Load(cfg.TourConfigPath)
	if err != nil {
		log.Fatalf("load tour config: %v", err)
	}

	resolver := assets.New(cfg.AssetBaseURL, cfg.WebPEnabled)
	builder := scene.New(cat, resolver)
	preloader := preload.New(builder, cfg.CacheURL, cfg.PreloadWorkers)
	sessions := session.NewManager(builder, preloader, func() session.Viewer {
		return session.NewRemoteViewer()
	})

	tourHandler := handlers.NewTourHandler(cat, builder, resolver, sessions)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Tour Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ready",
			"houses":   len(cat.Houses()),
			"sessions": sessions.Count(),
		})
	})

	// ============================================================
	// Tour Routes
	// ============================================================

	app.Get("/houses", tourHandler.ListHouses)
	app.Get("/houses/:id/tour", tourHandler.GetTour)
	app.Get("/houses/:id/scenes/:room", tourHandler.GetScene)

	app.Post("/sessions", tourHandler.CreateSession)
	app.Get("/sessions/:token", tourHandler.GetSession)
	app.Post("/sessions/:token/enter", tourHandler.EnterRoom)
	app.Post("/sessions/:token/marker", tourHandler.SelectMarker)
	app.Post("/sessions/:token/ready", tourHandler.ViewerReady)
	app.Post("/sessions/:token/position", tourHandler.UpdatePosition)
	app.Delete("/sessions/:token", tourHandler.DestroySession)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Tour Service on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Catalog: %d houses from %s", len(cat.Houses()), cfg.TourConfigPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
