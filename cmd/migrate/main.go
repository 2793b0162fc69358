package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/dverissimo/ustbudget/internal/config"
	"github.com/dverissimo/ustbudget/internal/database"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	slog.Info("schema up to date", "database", cfg.DB.Name)
}
