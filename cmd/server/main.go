package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/readwithcard/internal/api"
	"github.com/vytor/readwithcard/internal/cardapi"
	"github.com/vytor/readwithcard/internal/config"
	"github.com/vytor/readwithcard/internal/db"
	"github.com/vytor/readwithcard/internal/jobs"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/reminder"
	"github.com/vytor/readwithcard/internal/repository/sqlite"
	"github.com/vytor/readwithcard/internal/review"
	"github.com/vytor/readwithcard/internal/services"
	"github.com/vytor/readwithcard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("ReadWithCard Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("review_queue_size=%d", cfg.ReviewQueueSize)
	log.Debug("card_api_url=%s", cfg.CardAPIBaseURL)
	log.Debug("card_api_timeout=%v", cfg.CardAPITimeout)
	log.Debug("languages=%s->%s", cfg.NativeLanguage, cfg.LearningLanguage)
	log.Debug("reminder_interval=%v", cfg.ReminderInterval)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	loc := cfg.Location()
	langs := models.LanguagePair{Native: cfg.NativeLanguage, Learning: cfg.LearningLanguage}

	// Repositories
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	streakRepo := sqlite.NewStreakRepository(database.DB)

	// Services
	deckService := services.NewDeckService(deckRepo)
	cardService := services.NewCardService(cardRepo, deckRepo)
	streakService := services.NewStreakService(streakRepo, loc)

	client := cardapi.New(cardapi.Options{
		BaseURL:           cfg.CardAPIBaseURL,
		Timeout:           cfg.CardAPITimeout,
		MaxTextLength:     cfg.MaxTextLength,
		MaxImageBytes:     cfg.MaxImageBytes,
		MaxImageDimension: cfg.ImageMaxDimension,
	})

	// One worker keeps review writes in swipe order.
	reviewPool := worker.NewPool(1, cfg.ReviewQueueSize)
	queue := jobs.NewWorkerQueue(reviewPool, cardService, streakService)

	srv := &api.Server{
		DB:                 database,
		DeckService:        deckService,
		CardService:        cardService,
		StreakService:      streakService,
		GenerationService:  services.NewGenerationService(cardService, client, langs),
		SentenceService:    services.NewSentenceService(cardService, client, langs),
		SpreadsheetService: services.NewSpreadsheetService(deckService, cardService),
		Sessions:           review.NewManager(cardService, streakService, queue),
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		// Oversized photos are downscaled before they reach the card API.
		MaxUploadBytes: 4 * cfg.MaxImageBytes,
		Location:       loc,
	}

	ctx, cancel := context.WithCancel(context.Background())
	reviewPool.Start(ctx)

	reminders := reminder.New(cardService, reminder.NewLogNotifier(log), cfg.ReminderInterval)
	if err := reminders.Start(); err != nil {
		log.Error("failed to start reminders: %v", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.CardAPITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping reminders")
	reminders.Stop()

	// Queued review writes are drained before the database closes.
	log.Debug("stopping review pool, %d writes pending", reviewPool.QueueSize())
	reviewPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("ReadWithCard Server Stopped")
	log.Info("===========================================")
}
