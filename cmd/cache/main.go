package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"tour-engine/internal/cache/handlers"
	"tour-engine/internal/cache/repository"
	"tour-engine/internal/cache/service"
	"tour-engine/internal/common/config"
	"tour-engine/internal/common/middleware"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Cache Worker Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3002"
	}

	db, err := repository.OpenSQLite(cfg.CacheDBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init("migrations/001_init_cache.sql"); err != nil {
		log.Fatalf("init db: %v", err)
	}

	fetcher := service.NewFetcher(repo, cfg.PreloadWorkers)
	cacheHandler := handlers.NewCacheHandler(repo, fetcher)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Cache Worker",
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
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Cache Routes
	// ============================================================

	app.Post("/preload", cacheHandler.Preload)
	app.Get("/asset", cacheHandler.GetAsset)
	app.Get("/stats", cacheHandler.Stats)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Cache Worker on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Cache db: %s", cfg.CacheDBPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
