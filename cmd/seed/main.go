package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/application/usecase"
	apperr "github.com/tasknest/tasknest/domain/error"
	"github.com/tasknest/tasknest/infrastructure/adapter/postgres"
	"github.com/tasknest/tasknest/infrastructure/service/jwt"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
	"github.com/tasknest/tasknest/infrastructure/service/password"
)

var demoTodos = []inbound.CreateTodoRequest{
	{Title: "Read the README", Text: "Start here"},
	{Title: "Create a todo", Text: "POST /api/todos"},
	{Title: "Upload a file", Text: "POST /api/uploads"},
}

// seed registers a demo user (or logs in when it already exists) and gives
// it a handful of todos. It goes through the use cases so every invariant
// applies to seeded data too.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	email := getenvDefault("SEED_USER_EMAIL", "demo@example.com")
	pass := getenvDefault("SEED_USER_PASSWORD", "Demo1234!")

	ctx := context.Background()
	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, "up"); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Token secrets are irrelevant here; the issued tokens are discarded.
	tokens, err := jwt.NewJWTService("seed-access", "seed-refresh")
	if err != nil {
		log.Fatalf("failed to init tokens: %v", err)
	}
	seedLogger := logger.NewStructuredLogger(logger.LoggerConfig{Level: "info", Format: "text", ServiceName: "seed"})

	auth := usecase.NewAuthUseCase(
		postgres.NewUserRepositoryAdapter(db),
		postgres.NewSessionRepositoryAdapter(db, os.Getenv("REFRESH_TOKEN_SALT")),
		tokens,
		password.NewBcryptPasswordService(10),
		nil,
		seedLogger,
		time.Minute,
		time.Minute,
	)
	todos := usecase.NewTodoUseCase(postgres.NewTodoRepositoryAdapter(db), seedLogger)

	result, err := auth.Register(ctx, inbound.RegisterRequest{Email: email, Password: pass})
	if apperr.IsKind(err, apperr.KindDuplicateIdentity) {
		result, err = auth.Login(ctx, inbound.LoginRequest{Email: email, Password: pass})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed user: %v\n", err)
		os.Exit(1)
	}

	for _, req := range demoTodos {
		if _, err := todos.Create(ctx, result.User.ID, req); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed todo %q: %v\n", req.Title, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Seeded user: email=%s id=%s todos=%d\n", email, result.User.ID, len(demoTodos))
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
