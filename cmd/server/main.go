package main

import (
	"context"
	"log"

	"github.com/Voluto75/tapetag/internal/router"
	"github.com/Voluto75/tapetag/pkg/config"
	"github.com/Voluto75/tapetag/pkg/storage"
	"github.com/Voluto75/tapetag/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Initialize object storage
	ctx := context.Background()
	store, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	defer store.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, store)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
