package main

import (
	"context"
	apirepository "ctchen222/minimax-tic-tac-toe/internal/api/repository"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/config"
	"ctchen222/minimax-tic-tac-toe/internal/db"
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/random"
	"ctchen222/minimax-tic-tac-toe/internal/hub"
	"ctchen222/minimax-tic-tac-toe/internal/logger"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/room"
	"ctchen222/minimax-tic-tac-toe/internal/server"
	"ctchen222/minimax-tic-tac-toe/internal/telemetry"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()
	logger.Init(os.Stdout, logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Initialize Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer rdb.Close()

	// Initialize SQLite DB
	DB, err := db.LocalConnect(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to get sqlite db connection: %w", err)
	}
	defer DB.Close()
	if err := db.InitializeDB(ctx, DB); err != nil {
		return fmt.Errorf("failed to initialize sqlite db: %w", err)
	}

	// Create repositories
	gameRepo := repository.NewGameRepository(rdb, cfg.SessionTTL)
	playerRepo := repository.NewPlayerRepository(rdb, cfg.SessionTTL)
	historyRepo := repository.NewHistoryRepository(DB)
	userRepo := apirepository.NewUserRepository(DB)

	// Create services
	selector := bot.NewSelector(random.New())
	userService := service.NewUserService(userRepo, cfg.JWTSecret)
	moveService, err := service.NewMoveService(selector, cfg.DefaultDifficulty)
	if err != nil {
		return fmt.Errorf("failed to create move service: %w", err)
	}
	historyService, err := service.NewHistoryService(historyRepo)
	if err != nil {
		return fmt.Errorf("failed to create history service: %w", err)
	}

	// Create hub
	h := hub.NewHub(hub.Options{
		Redis:             rdb,
		GameRepo:          gameRepo,
		PlayerRepo:        playerRepo,
		History:           historyService,
		Selector:          selector,
		DefaultDifficulty: cfg.DefaultDifficulty,
		BotThinkDelay:     cfg.BotThinkDelay,
		Room:              room.Config{ReconnectGrace: cfg.ReconnectGrace},
	})
	hubDone := make(chan error, 1)
	go func() {
		hubDone <- h.Run(ctx)
	}()

	// Create the Gin-based server
	srv, err := server.NewServer(server.Options{
		Hub:               h,
		Users:             userService,
		Moves:             moveService,
		History:           historyService,
		DefaultDifficulty: cfg.DefaultDifficulty,
		WebDir:            cfg.WebDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Handler(),
	}

	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	var hubErr error
	hubStopped := false
	select {
	case <-ctx.Done():
	case hubErr = <-hubDone:
		hubStopped = true
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if !hubStopped {
		hubErr = <-hubDone
	}
	if hubErr != nil {
		return fmt.Errorf("hub stopped: %w", hubErr)
	}

	slog.Info("Server exiting")
	return nil
}
