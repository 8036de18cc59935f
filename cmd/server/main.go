package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordscapes/internal/config"
	"wordscapes/internal/database"
	"wordscapes/internal/game"
	"wordscapes/internal/handlers"
	"wordscapes/internal/repository"
	"wordscapes/internal/security"
	"wordscapes/internal/service"
	"wordscapes/internal/session"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Seed the default level catalog on first run
	if err := levelRepo.SeedDefaultLevels(); err != nil {
		log.Printf("Warning: Failed to seed default levels: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	sessions := session.NewStore()
	validator := game.Validator{Strict: cfg.StrictLetterCheck}
	gameService := service.NewGameService(levelRepo, progressRepo, sessions, validator, cfg.PointsPerWord, cfg.HintGrant)

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	middleware := handlers.NewMiddleware(authService, csrf)
	authHandler := handlers.NewAuthHandler(authService, csrf)
	gameHandler := handlers.NewGameHandler(gameService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Auth routes
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /me", middleware.RequireAuth(authHandler.Me))

	// Game routes
	mux.HandleFunc("POST /game/action", middleware.RequireAuth(middleware.CSRFProtect(gameHandler.HandleAction)))
	mux.HandleFunc("POST /game/check-word", middleware.RequireAuth(middleware.CSRFProtect(gameHandler.CheckWordOnly)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background cleanup of expired auth sessions and idle game state
	go cleanupLoop(authService, sessions, cfg.SessionIdleEvict)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// cleanupLoop periodically removes expired auth sessions and evicts idle
// game session state.
func cleanupLoop(authService *service.AuthService, sessions *session.Store, idle time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired auth sessions cleaned up")
		}

		if evicted := sessions.Evict(idle); evicted > 0 {
			log.Printf("Evicted %d idle game sessions", evicted)
		}
	}
}
