package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/application/usecase"
	"github.com/tasknest/tasknest/infrastructure/adapter/memory"
	"github.com/tasknest/tasknest/infrastructure/adapter/postgres"
	"github.com/tasknest/tasknest/infrastructure/adapter/redisstore"
	"github.com/tasknest/tasknest/infrastructure/adapter/storage"
	"github.com/tasknest/tasknest/infrastructure/config"
	"github.com/tasknest/tasknest/infrastructure/http/handler"
	"github.com/tasknest/tasknest/infrastructure/http/middleware"
	"github.com/tasknest/tasknest/infrastructure/http/router"
	"github.com/tasknest/tasknest/infrastructure/service/jwt"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
	"github.com/tasknest/tasknest/infrastructure/service/metrics"
	"github.com/tasknest/tasknest/infrastructure/service/password"
)

const bcryptCost = 10

type repositories struct {
	users    outbound.UserRepository
	sessions outbound.SessionRepository
	todos    outbound.TodoRepository
	files    outbound.FileRepository
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "tasknest",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":           cfg.Environment,
		"session_store": cfg.SessionStore,
		"upload":        cfg.UploadStorage,
	})

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			structuredLogger.Error(ctx, "Failed to connect to database", err, nil)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if cfg.DBAutoMigrate {
			if err := postgres.Migrate(ctx, db, "up"); err != nil {
				structuredLogger.Error(ctx, "Failed to apply migrations", err, nil)
				log.Fatalf("Failed to apply migrations: %v", err)
			}
		}
		structuredLogger.Info(ctx, "Database connection established", nil)
	} else {
		structuredLogger.Warn(ctx, "DATABASE_URL not set, data is kept in memory", nil)
	}

	repos, closeRepos, err := buildRepositories(ctx, cfg, db)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize session store", err, nil)
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer closeRepos()

	blobs, err := buildBlobStorage(ctx, cfg)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize upload storage", err, nil)
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	tokenService, err := jwt.NewJWTService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(bcryptCost)

	appMetrics := metrics.NewMetrics()

	authUseCase := usecase.NewAuthUseCase(
		repos.users,
		repos.sessions,
		tokenService,
		passwordService,
		appMetrics,
		structuredLogger,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	todoUseCase := usecase.NewTodoUseCase(repos.todos, structuredLogger)
	uploadUseCase := usecase.NewUploadUseCase(repos.files, blobs, structuredLogger, cfg.UploadMaxBytes)

	deps := router.Dependencies{
		Auth:   authUseCase,
		Todos:  todoUseCase,
		Upload: uploadUseCase,
		Logger: structuredLogger,
		Cookie: handler.CookieConfig{
			MaxAge: cfg.RefreshCookieMaxAge,
			Secure: cfg.CookieSecure,
		},
		UploadMaxBytes: cfg.UploadMaxBytes,
	}
	if db != nil {
		deps.DB = db
	}
	if cfg.UploadStorage == config.UploadStorageDisk {
		deps.StaticDir = cfg.UploadDir
	}
	if cfg.MetricsEnabled {
		deps.Observer = appMetrics
		deps.MetricsHandler = appMetrics.Handler()
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.CORSMiddleware(cfg.ClientURLs)(router.New(deps)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		structuredLogger.Info(ctx, "Starting server", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			structuredLogger.Error(ctx, "Server failed", err, nil)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}

// buildRepositories picks Postgres or in-memory storage for the domain data
// and the configured backend for sessions.
func buildRepositories(ctx context.Context, cfg *config.Config, db *sql.DB) (repositories, func(), error) {
	var repos repositories
	closeFn := func() {}

	if db != nil {
		repos.users = postgres.NewUserRepositoryAdapter(db)
		repos.todos = postgres.NewTodoRepositoryAdapter(db)
		repos.files = postgres.NewFileRepositoryAdapter(db)
	} else {
		repos.users = memory.NewUserRepository()
		repos.todos = memory.NewTodoRepository()
		repos.files = memory.NewFileRepository()
	}

	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		repos.sessions = postgres.NewSessionRepositoryAdapter(db, cfg.RefreshTokenSalt)
	case config.SessionStoreRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return repositories{}, closeFn, err
		}
		closeFn = func() { _ = client.Close() }
		repos.sessions = redisstore.NewSessionRepository(client, cfg.RefreshTokenSalt, cfg.RefreshTokenTTL)
	default:
		repos.sessions = memory.NewSessionRepository(cfg.RefreshTokenSalt)
	}
	return repos, closeFn, nil
}

func buildBlobStorage(ctx context.Context, cfg *config.Config) (outbound.BlobStorage, error) {
	if cfg.UploadStorage == config.UploadStorageS3 {
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}
	return storage.NewDiskStorage(cfg.UploadDir, "/static"), nil
}
