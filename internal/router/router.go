package router

import (
	"log"

	"github.com/Voluto75/tapetag/internal/handlers"
	"github.com/Voluto75/tapetag/internal/middleware"
	"github.com/Voluto75/tapetag/internal/models"
	"github.com/Voluto75/tapetag/internal/repositories"
	"github.com/Voluto75/tapetag/pkg/storage"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, store storage.ObjectStore) {
	// AutoMigrate PostgreSQL models; the unique index on likes
	// (post_id, visitor_id) is the backstop for concurrent toggles.
	err := pgdb.AutoMigrate(
		&models.Post{},
		&models.Like{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)

	// All routes resolve the anonymous visitor identity; a new token is
	// minted and set on the response when the cookie is absent.
	api := e.Group("")
	api.Use(middleware.VisitorIdentity())

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, likeRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, likeRepo, store)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	log.Println("All routes configured.")
}
