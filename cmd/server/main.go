package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/aprendia/estadistica-backend/internal/database"
	"github.com/aprendia/estadistica-backend/internal/handler"
	"github.com/aprendia/estadistica-backend/internal/identity"
	"github.com/aprendia/estadistica-backend/internal/logger"
	"github.com/aprendia/estadistica-backend/internal/profile"
	"github.com/aprendia/estadistica-backend/internal/quizgen"
	"github.com/aprendia/estadistica-backend/internal/router"
	"github.com/aprendia/estadistica-backend/internal/service"
	"github.com/aprendia/estadistica-backend/internal/validator"
	"github.com/aprendia/estadistica-backend/internal/videosearch"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Estadística Backend")

	// Missing collaborator credentials must fail here, not on first use.
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	cache := database.NewCache(rdb)

	// ─── Initialize Collaborator Clients ──────────────────────────────
	idClient := identity.NewClient(cfg, log)
	store := profile.NewStore(cfg.DatabaseURL(), cfg.HTTPTimeout, log)
	videos := videosearch.NewClient(cfg.HTTPTimeout, log)

	llm, err := quizgen.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini model")
	}
	quiz := quizgen.NewService(llm, cfg.LLMTimeout, log)

	// ─── Initialize Services ──────────────────────────────────────────
	studentService := service.NewStudentService(store, cache, log)
	authService := service.NewAuthService(cfg, cache, idClient, studentService, log)
	learningService := service.NewLearningService(studentService, videos, quiz, cache, cfg.QuizCount, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, studentService),
		Learning: handler.NewLearningHandler(learningService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
