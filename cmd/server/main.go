package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/luxentra/internal/cache"
	"github.com/example/luxentra/internal/catalog"
	"github.com/example/luxentra/internal/config"
	"github.com/example/luxentra/internal/database"
	"github.com/example/luxentra/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("failed to load product catalog: %v", err)
	}
	log.Printf("Loaded %d products from %s", cat.Len(), cfg.CatalogPath)

	var cartCache cache.CartCache
	if redisCache, err := cache.NewRedisCartCache(cfg.RedisURL, cfg.CheckoutSessionTTL); err != nil {
		log.Printf("Redis unavailable, running without cart cache: %v", err)
	} else {
		cartCache = redisCache
	}

	app := fiber.New(fiber.Config{
		AppName: "Luxentra Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, cat, cartCache)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
