package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studycam/api/internal/config"
	"github.com/studycam/api/internal/database"
	"github.com/studycam/api/internal/handler"
	"github.com/studycam/api/internal/jobs"
	"github.com/studycam/api/internal/middleware"
	"github.com/studycam/api/internal/repository"
	"github.com/studycam/api/internal/service"
	"github.com/studycam/api/pkg/identity"
	"github.com/studycam/api/pkg/livekit"
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

	// Initialize identity verification
	tokenSecret := cfg.Auth.TokenSecret
	if tokenSecret == "" {
		// Development fallback; Validate() rejects this in production
		tokenSecret = "studycam-dev-secret"
		slog.Warn("AUTH_TOKEN_SECRET not set, using development secret")
	}
	verifier, err := identity.NewService(identity.Config{
		Secret: tokenSecret,
		Issuer: cfg.Auth.TokenIssuer,
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		slog.Error("failed to initialize identity service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize media provider client
	if !cfg.LiveKit.ProviderConfigured() {
		slog.Warn("LiveKit credentials not configured, provider calls will fail")
	}
	provider := livekit.NewClient(livekit.ClientConfig{
		Host:      cfg.LiveKit.Host,
		APIKey:    cfg.LiveKit.APIKey,
		APISecret: cfg.LiveKit.APISecret,
		TokenTTL:  cfg.LiveKit.TokenTTL,
	})

	// Initialize repositories
	roomRepo := repository.NewRoomRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	// Initialize services
	roomService := service.NewRoomService(service.RoomServiceConfig{
		RoomRepo:   roomRepo,
		MemberRepo: memberRepo,
	})

	admissionService := service.NewAdmissionService(service.AdmissionServiceConfig{
		RoomRepo:   roomRepo,
		MemberRepo: memberRepo,
		Provider:   provider,
		Logger:     logger,
	})

	sessionService := service.NewSessionService(service.SessionServiceConfig{
		RoomRepo:   roomRepo,
		MemberRepo: memberRepo,
		Admission:  admissionService,
		Provider:   provider,
		Logger:     logger,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100,
		Window: time.Minute,
		Burst:  20,
	})
	defer rateLimiter.Stop()

	// Initialize provider reconciliation job
	if cfg.Jobs.ReconcileEnabled {
		reconciler := jobs.NewReconciler(roomService, memberRepo, provider, cfg.Jobs.ReconcileInterval)
		reconciler.Start()
		defer reconciler.Stop()
	}

	// Initialize handlers
	roomHandler := handler.NewRoomHandler(roomService, admissionService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	webhookHandler := handler.NewWebhookHandler(sessionService, cfg.Webhook.SharedSecret, logger)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Room endpoints
	authMiddleware := middleware.Auth(verifier)
	mux.HandleFunc("GET /v1/rooms", roomHandler.List)
	mux.HandleFunc("GET /v1/rooms/{roomId}", roomHandler.Get)
	mux.Handle("POST /v1/rooms", authMiddleware(http.HandlerFunc(roomHandler.Create)))
	mux.Handle("POST /v1/rooms/{roomId}/join", authMiddleware(http.HandlerFunc(roomHandler.Join)))
	mux.Handle("POST /v1/rooms/{roomId}/leave", authMiddleware(http.HandlerFunc(roomHandler.Leave)))

	// Room admin endpoints (host only, enforced by the service)
	mux.Handle("POST /v1/rooms/{roomId}/admin/kick", authMiddleware(http.HandlerFunc(sessionHandler.Kick)))
	mux.Handle("POST /v1/rooms/{roomId}/admin/publish-permission", authMiddleware(http.HandlerFunc(sessionHandler.PublishPermission)))

	// Provider webhook (shared-secret auth, not bearer identity)
	mux.HandleFunc("POST /v1/livekit/webhook", webhookHandler.Receive)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
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
