package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/pantry-scan/internal/config"
	"github.com/foxxcyber/pantry-scan/internal/database"
	"github.com/foxxcyber/pantry-scan/internal/handlers"
	"github.com/foxxcyber/pantry-scan/internal/services"
)

// kvStore is a services.KVStore that holds a connection or file open
type kvStore interface {
	services.KVStore
	io.Closer
}

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Open the key-value store
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	deps := handlers.Dependencies{
		Store:    store,
		Products: services.NewOpenFoodFactsService(cfg.OpenFoodFactsURL, cfg.OpenFoodFactsUserAgent, cfg.OpenFoodFactsTimeout),
	}

	// Initialize OCR service
	if cfg.OCREnabled {
		ocrService, err := services.NewOCRService(cfg.OCRLanguage)
		if err != nil {
			log.Printf("Warning: Failed to initialize OCR service: %v", err)
		} else {
			defer ocrService.Close()
			deps.OCR = ocrService
			log.Println("OCR service initialized")
		}
	}

	// Initialize scan archive
	if cfg.S3Enabled {
		if archive := initScanArchive(cfg); archive != nil {
			deps.Archive = archive
		}
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, OPTIONS",
	}))

	handlers.New(cfg, deps).Register(app)

	log.Printf("Server starting on port %s (%s store)", cfg.Port, cfg.StoreDriver)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func openStore(cfg *config.Config) (kvStore, error) {
	switch cfg.StoreDriver {
	case "bolt":
		return database.NewBoltStore(cfg.BoltPath)
	case "postgres":
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return db, nil
	case "memory":
		log.Println("Warning: Using in-memory store, learned offsets are lost on restart")
		return database.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func initScanArchive(cfg *config.Config) *services.StorageService {
	if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		log.Println("S3 credentials not configured, scan archive disabled")
		return nil
	}

	storageService, err := services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage service: %v", err)
		return nil
	}

	if err := storageService.EnsureBucket(context.Background()); err != nil {
		log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
	}

	log.Printf("Scan archive initialized (bucket %s)", storageService.GetBucketName())
	return storageService
}
