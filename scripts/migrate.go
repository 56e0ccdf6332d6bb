package main

import (
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

// Applies the embedded minutes migrations. Pass "down" to roll back one step.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}

	direction, limit := migrate.Up, 0
	if len(os.Args) > 1 && os.Args[1] == "down" {
		direction, limit = migrate.Down, 1
	}

	log.Println("🔄 Applying migrations...")
	n, err := migrate.ExecMax(sqlDB, "postgres", database.MigrationSource(), direction, limit)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
}
