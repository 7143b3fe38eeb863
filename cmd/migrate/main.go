package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/config"
	"brandgate/internal/platform/database"
)

func main() {
	brandID := flag.String("brand", "", "Brand to migrate (default: all registered brands)")
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	registry := brand.Default()
	pool := database.NewTenantDBPool(cfg.Database.Tenant, registry)
	defer pool.CloseAll()

	var targets []*brand.Config
	if *brandID != "" {
		target := registry.Get(brand.ID(*brandID))
		if target == nil {
			log.Fatalf("Unknown brand: %s", *brandID)
		}
		targets = append(targets, target)
	} else {
		targets = registry.All()
	}

	if err := os.MkdirAll(cfg.Database.Tenant.BasePath, 0755); err != nil {
		log.Fatalf("Failed to create tenant database directory: %v", err)
	}

	for _, target := range targets {
		client, err := pool.Client(target.ID)
		if err != nil {
			log.Fatalf("Failed to open schema for brand %s: %v", target.ID, err)
		}

		log.Printf("Migrating brand %s (schema %s)", target.ID, target.Schema)
		if err := runMigrations(client.DB, "migrations/tenant"); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("Migration completed successfully")
}

func runMigrations(db *sql.DB, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) == ".sql" {
			content, err := os.ReadFile(filepath.Join(dir, file.Name()))
			if err != nil {
				return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
			}

			log.Printf("Applying migration: %s", file.Name())
			if _, err := db.Exec(string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", file.Name(), err)
			}
		}
	}
	return nil
}
