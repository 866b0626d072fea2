package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/okellen/contactbook-be/internal/api"
	"github.com/okellen/contactbook-be/internal/auth"
	"github.com/okellen/contactbook-be/internal/config"
	"github.com/okellen/contactbook-be/internal/database"
	"github.com/okellen/contactbook-be/internal/logger"
	"github.com/okellen/contactbook-be/internal/mail"
	"github.com/okellen/contactbook-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Ensure the avatar and upload staging directories exist
	if err := os.MkdirAll(cfg.AvatarDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create avatar directory")
	}
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create temp directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the SMTP mailer
	mailer, err := mail.New(cfg.SMTPHost, cfg.SMTPUser, cfg.SMTPPass, cfg.MailAddress, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize mailer")
	}
	if !mailer.IsEnabled() {
		log.Warn().Msg("SMTP credentials missing, outgoing mail is disabled")
	}

	// Set up token manager and services
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(db, tokens, mailer, cfg.BcryptCost, cfg.BaseURL)
	contactService := services.NewContactService(db)

	// Set up router
	router := api.NewRouter(tokens, userService, contactService, cfg.AvatarDir, cfg.TempDir)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
