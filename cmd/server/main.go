package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ideaforge/internal/auth"
	"ideaforge/internal/config"
	"ideaforge/internal/handler"
	"ideaforge/internal/llm"
	"ideaforge/internal/middleware"
	"ideaforge/internal/ratelimit"
	"ideaforge/internal/registry"
	"ideaforge/internal/repository/postgres"
	"ideaforge/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.IsDev() {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.NewLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	contentRepo := postgres.NewContentRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})

	// Model catalog
	modelRegistry, err := registry.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load model registry: %v", err)
	}
	logger.Info("model registry loaded", "models", len(modelRegistry.List()), "default", modelRegistry.Default().ID)

	// Provider router
	router, err := llm.NewRouter(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up providers: %v", err)
	}

	// Content service
	contentService := service.NewContentService(contentRepo, router, modelRegistry, cfg.GenerateTimeout, logger)

	// Generation rate limiter (optional, requires Redis)
	var limiter handler.GenerateLimiter
	if cfg.RedisAddr != "" {
		fw, err := ratelimit.NewFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "ideaforge:generate", cfg.GeneratePerMinute, time.Minute)
		if err != nil {
			log.Fatalf("Failed to create rate limiter: %v", err)
		}
		defer fw.Close()
		limiter = fw
		logger.Info("generation rate limiting enabled", "per_minute", cfg.GeneratePerMinute)
	} else {
		logger.Warn("generation rate limiting disabled (REDIS_ADDR not set)")
	}

	// Create handlers
	errMapper := handler.NewErrorMapper(logger, cfg.IsDev())
	contentHandler := handler.NewContentHandler(contentService, limiter, errMapper, logger)
	modelsHandler := handler.NewModelsHandler(modelRegistry)
	healthHandler := handler.NewHealthHandler(pool, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)

	// Content routes
	mux.HandleFunc("POST /content/generate", contentHandler.Generate)
	mux.HandleFunc("GET /content/history", contentHandler.History)
	mux.HandleFunc("GET /content/search", contentHandler.Search) // Must come before {id} route
	mux.HandleFunc("GET /content/favorites", contentHandler.Favorites)
	mux.HandleFunc("GET /content/models", modelsHandler.ListModels)
	mux.HandleFunc("GET /content/analytics", contentHandler.Analytics)
	mux.HandleFunc("GET /content/{id}", contentHandler.Get)
	mux.HandleFunc("DELETE /content/{id}", contentHandler.Delete)
	mux.HandleFunc("PATCH /content/{id}/favorite", contentHandler.ToggleFavorite)
	mux.HandleFunc("GET /content/{id}/export/{format}", contentHandler.Export)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.Auth(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerateTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server and wait for a shutdown signal
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
