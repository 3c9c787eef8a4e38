package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tasknest/tasknest/infrastructure/adapter/postgres"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down or status")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("DB_URL")
	}
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	command := strings.ToLower(*mode)
	switch command {
	case "up", "down", "status":
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, command); err != nil {
		log.Fatalf("migration %s failed: %v", command, err)
	}
	log.Printf("Migration %s completed successfully", command)
}
