package main

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/notifications"
	"github.com/lienquan/karahub/backend/internal/router"
	"github.com/lienquan/karahub/backend/pkg/config"
	"github.com/lienquan/karahub/backend/pkg/firebase"
	"github.com/lienquan/karahub/backend/pkg/onesignal"
	"github.com/lienquan/karahub/backend/pkg/storage"
	"github.com/lienquan/karahub/backend/validators"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase; without credentials the server falls back to
	// local JWT auth.
	ctx := context.Background()
	var push notifications.PushGateway = &notifications.OneSignalGateway{
		Client: onesignal.NewClient(cfg.OneSignalAppID, cfg.OneSignalAPIKey),
	}

	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		logrus.WithError(err).Warn("Firebase unavailable, using local JWT auth")
		firebaseApp = nil
	}

	// Object storage for song and moment media
	media, err := storage.NewMediaStorage(cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretAccessKey)
	if err != nil {
		logrus.Fatalf("Failed to initialize media storage: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if firebaseApp != nil {
		router.SetupRoutes(e, cfg, db, firebaseApp.AuthClient, push, media)
	} else {
		router.SetupRoutes(e, cfg, db, nil, push, media)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
