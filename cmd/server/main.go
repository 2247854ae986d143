package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mentorship/internal/auth"
	"mentorship/internal/config"
	"mentorship/internal/domain/repositories"
	"mentorship/internal/handler"
	"mentorship/internal/kinds"
	"mentorship/internal/middleware"
	"mentorship/internal/repository/memory"
	"mentorship/internal/repository/postgres"
	serviceAuth "mentorship/internal/service/auth"
	"mentorship/internal/service/content"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session token verification
	jwtVerifier, err := auth.NewJWTVerifier(cfg.ClerkJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Admin gate backed by the identity provider's membership API
	if cfg.ClerkSecretKey == "" {
		logger.Warn("CLERK_SECRET_KEY not set: every admin check will fail closed")
	}
	clerkClient := auth.NewClerkClient(cfg.ClerkAPIURL, cfg.ClerkSecretKey)
	adminGate := serviceAuth.NewMembershipAdminGate(clerkClient, cfg.MembershipPageLimit, cfg.MembershipMaxPages, logger)

	kindRegistry, err := kinds.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize kind registry: %v", err)
	}
	logger.Info("kind registry initialized", "kinds", kindRegistry.Names())

	// Storage
	var (
		courseRepo repositories.CourseRepository
		entityRepo repositories.OrderedEntityRepository
		txManager  repositories.TransactionManager
	)

	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if cfg.Environment == "dev" {
			if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
				log.Fatalf("Failed to ensure schema: %v", err)
			}
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		courseRepo = postgres.NewCourseRepository(repoConfig)
		entityRepo = postgres.NewOrderedEntityRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool, logger)

		logger.Info("database connected")
	} else {
		store := memory.NewStore()
		courseRepo = store.Courses()
		entityRepo = store.Entities()
		txManager = store

		logger.Warn("DATABASE_URL not set: using in-memory storage, data is lost on exit")
	}

	// Services
	reorderService := content.NewReorderService(kindRegistry, entityRepo, txManager, logger)
	contentService := content.NewService(kindRegistry, courseRepo, entityRepo, txManager, logger)

	logger.Info("services initialized")

	mux := handler.NewRouter(&handler.RouterConfig{
		Reorder: reorderService,
		Content: contentService,
		Gate:    adminGate,
		Kinds:   kindRegistry,
		Logger:  logger,
	})

	// Build middleware chain
	var h http.Handler = mux

	// Order: CORS → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
