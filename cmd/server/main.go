package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ssteja698/colony-events/internal/config"
	"github.com/ssteja698/colony-events/internal/database"
	"github.com/ssteja698/colony-events/internal/handler"
	"github.com/ssteja698/colony-events/internal/jobs"
	"github.com/ssteja698/colony-events/internal/middleware"
	"github.com/ssteja698/colony-events/internal/repository"
	"github.com/ssteja698/colony-events/internal/service"
	"github.com/ssteja698/colony-events/pkg/token"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize token verifier
	verifier, err := token.NewVerifier(token.Config{
		PublicKeyPath: cfg.Auth.PublicKeyPath,
		Issuer:        cfg.Auth.Issuer,
	})
	if err != nil {
		slog.Error("failed to initialize token verifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	pushTokenRepo := repository.NewPushTokenRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// Initialize services
	gateway := service.NewExpoGateway(service.ExpoGatewayConfig{
		URL:     cfg.Push.GatewayURL,
		Timeout: cfg.Push.Timeout,
		Logger:  logger,
	})

	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo: userRepo,
	})

	eventService := service.NewEventService(service.EventServiceConfig{
		EventRepo: eventRepo,
		UserRepo:  userRepo,
	})

	membershipService := service.NewMembershipService(service.MembershipServiceConfig{
		GroupRepo: groupRepo,
		EventRepo: eventRepo,
		UserRepo:  userRepo,
	})

	fanoutService := service.NewFanoutService(service.FanoutServiceConfig{
		TokenRepo: pushTokenRepo,
		EventRepo: eventRepo,
		Gateway:   gateway,
		Logger:    logger,
	})

	reminderService := service.NewReminderService(service.ReminderServiceConfig{
		Scheduler: service.NewStoreScheduler(reminderRepo),
		DueRepo:   reminderRepo,
		TokenRepo: pushTokenRepo,
		Gateway:   gateway,
		Logger:    logger,
	})

	snapshotHub := service.NewSnapshotHub(db, logger)

	// Background jobs
	watcher := jobs.NewEventWatcher(jobs.EventWatcherConfig{
		DB:      db,
		Fanout:  fanoutService,
		Logger:  logger,
		Backoff: cfg.Jobs.WatcherBackoff,
	})
	watcher.Start()
	defer watcher.Stop()

	scheduler := cron.New()
	if _, err := scheduler.AddJob(cfg.Jobs.UpcomingSweepSchedule, jobs.NewUpcomingSweep(fanoutService, logger)); err != nil {
		slog.Error("failed to schedule upcoming sweep", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if _, err := scheduler.AddJob(cfg.Jobs.ReminderDispatchSchedule, jobs.NewReminderDispatch(reminderService, logger)); err != nil {
		slog.Error("failed to schedule reminder dispatch", slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	profileHandler := handler.NewProfileHandler(userService)
	eventHandler := handler.NewEventHandler(eventService, userService, membershipService)
	groupHandler := handler.NewGroupHandler(membershipService)
	deviceHandler := handler.NewDeviceHandler(pushTokenRepo)
	reminderHandler := handler.NewReminderHandler(reminderService, eventService)
	streamHandler := handler.NewStreamHandler(snapshotHub, eventService, membershipService, userService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint (public)
	mux.HandleFunc("GET /health", healthHandler.Check)

	authMiddleware := middleware.Auth(verifier)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	// Profile endpoints
	mux.Handle("PUT /v1/profile", protected(profileHandler.Ensure))
	mux.Handle("GET /v1/profile", protected(profileHandler.Get))

	// Event endpoints
	mux.Handle("POST /v1/events", protected(eventHandler.Create))
	mux.Handle("GET /v1/events", protected(eventHandler.List))
	mux.Handle("GET /v1/events/feed", protected(eventHandler.Feed))
	mux.Handle("GET /v1/events/{eventId}", protected(eventHandler.Get))
	mux.Handle("PUT /v1/events/{eventId}/interest", protected(eventHandler.AddInterest))
	mux.Handle("DELETE /v1/events/{eventId}/interest", protected(eventHandler.RemoveInterest))

	// Reminder endpoints
	mux.Handle("POST /v1/events/{eventId}/reminder", protected(reminderHandler.Schedule))
	mux.Handle("GET /v1/events/{eventId}/reminder", protected(reminderHandler.Status))

	// Group endpoints
	mux.Handle("POST /v1/groups", protected(groupHandler.Create))
	mux.Handle("GET /v1/groups", protected(groupHandler.List))
	mux.Handle("GET /v1/groups/{groupId}", protected(groupHandler.Get))
	mux.Handle("PATCH /v1/groups/{groupId}", protected(groupHandler.Update))
	mux.Handle("POST /v1/groups/{groupId}/join", protected(groupHandler.Join))
	mux.Handle("POST /v1/groups/{groupId}/leave", protected(groupHandler.Leave))

	// Device token endpoints
	mux.Handle("POST /v1/devices", protected(deviceHandler.Register))
	mux.Handle("GET /v1/devices", protected(deviceHandler.List))
	mux.Handle("DELETE /v1/devices", protected(deviceHandler.Unregister))

	// Change feed endpoint (server-sent events)
	mux.Handle("GET /v1/stream/{topic}", protected(streamHandler.Stream))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Create HTTP server. No write timeout so stream connections can
	// stay open indefinitely.
	server := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     wrapped,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: 120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
