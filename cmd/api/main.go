package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ovoronin/bloghub/internal/auth"
	"github.com/ovoronin/bloghub/internal/background"
	"github.com/ovoronin/bloghub/internal/config"
	"github.com/ovoronin/bloghub/internal/database"
	"github.com/ovoronin/bloghub/internal/handlers"
	middlewareCustom "github.com/ovoronin/bloghub/internal/middleware"
	"github.com/ovoronin/bloghub/internal/repositories"
	"github.com/ovoronin/bloghub/internal/routes"
	"github.com/ovoronin/bloghub/internal/services"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).
			Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserAccountRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	requestLogRepo := repositories.NewRequestLogRepository(db)
	blogRepo := repositories.NewBlogRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	// Token manager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	// AWS SES email service
	emailService, err := services.NewAWSSESEmailService(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		cfg.Email.ConfirmURLBase,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Services
	rateLimitService := services.NewRateLimitService(requestLogRepo, cfg.RateLimit, logger)
	authService := services.NewAuthService(userRepo, sessionRepo, tokenManager, emailService, cfg.Email, cfg.RateLimit, logger)
	userService := services.NewUserService(userRepo, logger)
	blogService := services.NewBlogService(blogRepo, logger)
	postService := services.NewPostService(postRepo, blogRepo, logger)
	commentService := services.NewCommentService(commentRepo, postRepo, userRepo, logger)

	cleanupManager := background.NewCleanupManager(
		rateLimitService,
		sessionRepo,
		userRepo,
		logger,
		cfg.RateLimit.SweepInterval,
		cfg.Cleanup.Interval,
		cfg.Cleanup.UnconfirmedTTL,
	)

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	cookieConfig := auth.CookieConfig{
		Domain:   cfg.Auth.CookieDomain,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: cfg.Auth.CookieSameSite,
	}

	// Handlers
	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cfg.Auth.RefreshTokenExpiry, cookieConfig, ipConfig),
		Devices:  handlers.NewDeviceHandler(authService),
		Blogs:    handlers.NewBlogHandler(blogService, postService),
		Posts:    handlers.NewPostHandler(postService, commentService),
		Comments: handlers.NewCommentHandler(commentService),
		Users:    handlers.NewUserHandler(userService),
	}

	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.RateLimitByIP(cfg.RateLimit.GlobalRequestsPerMinute))
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, h, tokenManager, rateLimitService, ipConfig,
		cfg.Server.AdminLogin, cfg.Server.AdminPassword)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
