package main

import (
	"log/slog"
	"os"

	"github.com/chipin-app/chipin/pkg/chipin/auth"
	"github.com/chipin-app/chipin/pkg/chipin/config"
	"github.com/chipin-app/chipin/pkg/chipin/database"
	"github.com/chipin-app/chipin/pkg/chipin/events"
	"github.com/chipin-app/chipin/pkg/chipin/groups"
	"github.com/chipin-app/chipin/pkg/chipin/invites"
	"github.com/chipin-app/chipin/pkg/chipin/logging"
	"github.com/chipin-app/chipin/pkg/chipin/metrics"
	"github.com/chipin-app/chipin/pkg/chipin/models"
	"github.com/chipin-app/chipin/pkg/chipin/profiles"
	"github.com/chipin-app/chipin/pkg/chipin/recaptcha"
	"github.com/gin-gonic/gin"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	auth.SetSecret(cfg.JWTSecret)

	if err := database.Connect(cfg.DBPath); err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	if err := ensureAdminExists(); err != nil {
		slog.Error("Failed to ensure admin user exists", "error", err)
		os.Exit(1)
	}

	// Bot verification is skipped entirely when no secret is configured
	var verifier recaptcha.Verifier
	if cfg.RecaptchaSecretKey != "" {
		verifier = recaptcha.New(cfg.RecaptchaSecretKey, cfg.RecaptchaTimeout)
	} else {
		slog.Warn("No recaptcha secret configured, bot verification disabled")
	}

	db := database.GetDB()

	r := gin.Default()
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// Invite acceptance is public: the token is the credential
	invitesHandler := invites.NewHandler(db, cfg)
	invitesHandler.RegisterPublicRoutes(r)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok", "service": "chipin"})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(db, verifier)
		authHandler.RegisterRoutes(api.Group("/auth"))

		authed := api.Group("", auth.AuthMiddleware())

		// Groups, join requests and comments
		groupsHandler := groups.NewHandler(db)
		groupsGroup := authed.Group("/groups")
		groupsHandler.RegisterRoutes(groupsGroup)
		groupsHandler.RegisterJoinRequestRoutes(groupsGroup)
		groupsHandler.RegisterCommentRoutes(groupsGroup)

		// Invites (admin-facing routes live under /groups)
		invitesHandler.RegisterGroupRoutes(groupsGroup)
		invitesHandler.RegisterSentRoute(authed)

		// Events
		eventsHandler := events.NewHandler(db)
		eventsHandler.RegisterRoutes(groupsGroup)

		// Profiles and transactions
		profilesHandler := profiles.NewHandler(db)
		profilesHandler.RegisterRoutes(authed)
	}

	slog.Info("Starting chipin server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

// ensureAdminExists creates a default admin user if no admin exists in the
// database.
func ensureAdminExists() error {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.User{}).Where("system_role = ?", models.SystemRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	admin, err := models.NewUserWithProfile(db, "admin@chipin.local", hashedPassword, "Admin", models.SystemRoleAdmin)
	if err != nil {
		return err
	}

	slog.Info("Created default admin user", "email", admin.Email)
	return nil
}
