package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"movierec/internal/auth"
	"movierec/internal/config"
	"movierec/internal/repository/backend"
	"movierec/internal/repository/kvstore"
	"movierec/internal/seed"
)

func main() {
	reset := flag.Bool("reset", false, "Drop all stored chats and history before seeding (postgres only)")
	schemaOnly := flag.Bool("schema-only", false, "Only ensure the storage schema, don't seed data")
	email := flag.String("email", "demo@example.com", "Email of the demo user")
	password := flag.String("password", "demo-password", "Password of the demo user when it has to be created")
	userID := flag.String("user-id", "", "Seed for this user ID instead of creating a Supabase user")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *reset {
		log.Fatalf("BLOCKED: cannot run --reset in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	if *reset {
		if store.Reset == nil {
			log.Fatalf("--reset is not supported by the %s backend", store.Name)
		}
		if err := store.Reset(ctx); err != nil {
			log.Fatalf("Failed to reset storage: %v", err)
		}
		logger.Info("storage reset", "backend", store.Name)
	}

	if *schemaOnly {
		logger.Info("schema ready", "backend", store.Name)
		return
	}

	id := *userID
	if id == "" {
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			log.Fatalf("SUPABASE_URL and SUPABASE_KEY are required to create the demo user (or pass --user-id)")
		}
		user, err := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey).EnsureUser(ctx, *email, *password)
		if err != nil {
			log.Fatalf("Failed to ensure demo user: %v", err)
		}
		id = user.ID
		logger.Info("demo user ready", "user_id", id, "email", *email)
	}

	seeder := seed.NewSeeder(
		kvstore.NewChatRepository(store.KV, store.Tx, logger),
		kvstore.NewHistoryRepository(store.KV),
		logger,
	)
	if err := seeder.SeedUser(ctx, id, *email); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	logger.Info("seeding complete", "backend", store.Name)
}
