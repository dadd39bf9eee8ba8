package main

import (
	"context"
	"log"
	"os"

	"enrolldash/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url>")
	}

	db, err := sqlx.Connect("postgres", os.Args[1])
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(context.Background(), db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema is at version %s", runner.Version())
}
