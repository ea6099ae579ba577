package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/lienquan/karahub/backend/internal/handlers"
	"github.com/lienquan/karahub/backend/internal/middleware"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/notifications"
	"github.com/lienquan/karahub/backend/internal/repositories"
	"github.com/lienquan/karahub/backend/pkg/config"
	"github.com/lienquan/karahub/backend/pkg/storage"
	"github.com/sirupsen/logrus"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logrus.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, firebaseAuthClient *auth.Client, push notifications.PushGateway, media *storage.MediaStorage) {
	// AutoMigrate PostgreSQL models
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Notification{},
		&models.MomentComment{},
		&models.Song{},
		&models.Report{},
	)
	if err != nil {
		logrus.Fatalf("Failed to auto migrate models: %v", err)
	}
	logrus.Info("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres, db.Redis)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	songRepo := repositories.NewPostgresSongRepository(db.Postgres)
	reportRepo := repositories.NewPostgresReportRepository(db.Postgres)
	momentRepo := repositories.NewMongoMomentRepository(db.Mongo.Database("karahub"))

	// --- Notification engine ---
	resolver := notifications.NewResolver(userRepo)
	labeler := &notifications.RepoLabeler{
		Songs:    songRepo,
		Users:    userRepo,
		Moments:  momentRepo,
		Comments: commentRepo,
	}
	engine := notifications.NewEngine(notificationRepo, followRepo, push, resolver, labeler, cfg.NotificationMergeWindow)

	// --- Protected routes (require authentication) ---
	api := e.Group("/api/v1")
	if firebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo))
		logrus.Info("Firebase authentication middleware applied to /api/v1 group.")
	} else {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		logrus.Info("JWT authentication middleware applied to /api/v1 group.")
	}

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(engine, notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	logrus.Info("Notification routes configured.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)
	logrus.Info("User profile routes configured.")

	// Follow graph routes
	followHandler := handlers.NewFollowHandler(followRepo)
	followHandler.RegisterFollowRoutes(api)
	logrus.Info("Follow graph routes configured.")

	// Song catalog routes
	songHandler := handlers.NewSongHandler(songRepo, media)
	songHandler.RegisterSongRoutes(api)
	logrus.Info("Song routes configured.")

	// Moment routes
	momentHandler := handlers.NewMomentHandler(momentRepo, media, engine)
	momentHandler.RegisterMomentRoutes(api)
	logrus.Info("Moment routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, momentRepo, engine)
	commentHandler.RegisterCommentRoutes(api)
	logrus.Info("Comment routes configured.")

	// Report routes
	reportHandler := handlers.NewReportHandler(reportRepo, engine)
	reportHandler.RegisterReportRoutes(api)
	logrus.Info("Report routes configured.")

	// --- Admin routes ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireAdmin())
	reportHandler.RegisterAdminReportRoutes(admin)
	songHandler.RegisterAdminSongRoutes(admin)
	userHandler.RegisterAdminUserRoutes(admin)
	logrus.Info("Admin routes configured.")

	logrus.Info("All routes configured.")
}
