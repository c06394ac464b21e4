// Command resetdb deletes the database file and recreates an empty schema.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/vytor/readwithcard/internal/config"
	"github.com/vytor/readwithcard/internal/db"
	"github.com/vytor/readwithcard/internal/logger"
)

func main() {
	confirm := flag.Bool("yes", false, "confirm that every deck, card and streak should be deleted")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)), logger.WithColors(true))
	logger.SetDefault(log)

	if !*confirm {
		log.Error("refusing to reset %s without -yes", cfg.DBPath)
		os.Exit(2)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}

	fresh, err := database.Reset()
	if err != nil {
		log.Error("failed to reset database: %v", err)
		os.Exit(1)
	}
	defer fresh.Close()

	applied, err := fresh.AppliedMigrations(context.Background())
	if err != nil {
		log.Error("failed to read migrations: %v", err)
		os.Exit(1)
	}
	log.Info("database %s reset, %d migrations applied", fresh.Path(), len(applied))
}
