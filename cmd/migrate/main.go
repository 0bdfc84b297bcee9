package main

import (
	"context"
	"flag"
	"log"

	"ideaforge/internal/config"
	"ideaforge/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before creating them (fresh start)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	log.Printf("🏗️  Setting up schema (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Create content records table. IDs are generated application-side,
	// so the column is plain TEXT rather than a UUID default.
	createContent := `
		CREATE TABLE IF NOT EXISTS ` + tables.Content + ` (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			titles TEXT[] NOT NULL,
			description TEXT NOT NULL,
			tags TEXT[] NOT NULL,
			thumbnail_ideas TEXT[] NOT NULL,
			script_outline TEXT[] NOT NULL,
			ai_model TEXT NOT NULL,
			is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createContent); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `content_owner ON ` + tables.Content + `(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `content_owner_favorite ON ` + tables.Content + `(owner_id) WHERE is_favorite`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	dropSQL := "DROP TABLE IF EXISTS " + tables.Content + " CASCADE"
	if _, err := pool.Exec(ctx, dropSQL); err != nil {
		return err
	}
	log.Printf("  ✓ Dropped %s", tables.Content)
	return nil
}
