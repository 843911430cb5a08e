package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/fkhayef/attendly/internal/auth"
	"github.com/fkhayef/attendly/internal/config"
	"github.com/fkhayef/attendly/internal/database"
	"github.com/fkhayef/attendly/internal/group"
	"github.com/fkhayef/attendly/internal/session"
	"github.com/fkhayef/attendly/internal/user"
	mw "github.com/fkhayef/attendly/pkg/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Apply schema migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	logger.Info("migrations applied")

	// Token manager
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Auth feature
	authService := auth.NewService(userRepo, tokens)
	authHandler := auth.NewHandler(authService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo)
	groupHandler := group.NewHandler(groupService)

	// Session feature
	sessionRepo := session.NewRepository(db)
	sessionService := session.NewService(sessionRepo, groupRepo, userRepo)
	sessionHandler := session.NewHandler(sessionService)

	// Cross-cutting pieces
	registry := prometheus.NewRegistry()
	metrics := mw.NewMetricsCollector(registry)
	authLimiter := mw.NewRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst)
	defer authLimiter.Stop()

	authenticate := mw.Authenticator(authService)
	adminOnly := mw.RequireRole(user.RoleAdmin)
	memberOnly := mw.RequireRole(user.RoleMember)
	anyRole := mw.RequireRole(user.RoleMember, user.RoleAdmin)

	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(metrics.Middleware)
	r.Use(mw.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", mw.MetricsHandler(registry))

	// Public credential endpoints, rate limited
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Mount("/auth", authHandler.Routes())
	})

	// Admin surface: group registry and user administration
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticate, adminOnly)
		r.Mount("/users", userHandler.Routes())
		r.Mount("/", groupHandler.Routes())
	})

	// Session lifecycle, admin only
	r.Route("/session", func(r chi.Router) {
		r.Use(authenticate, adminOnly)
		r.Post("/create-session", sessionHandler.CreateSession)
		r.Get("/get-sessions", sessionHandler.GetSessions)
		r.Get("/{sessionId}/qr", sessionHandler.JoinQR)
	})

	// Attendance marking and queries
	r.Route("/attendance", func(r chi.Router) {
		r.Use(authenticate)
		r.With(memberOnly).Post("/mark", sessionHandler.Mark)
		r.With(adminOnly).Get("/{sessionId}", sessionHandler.Attendees)
		r.With(anyRole).Get("/user/{userId}", sessionHandler.UserSessions)
		r.With(adminOnly).Get("/group-wise-data/{groupId}", sessionHandler.GroupSummary)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
