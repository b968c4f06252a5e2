package main

import (
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/infrastructure/config"
	"github.com/dormbill/backend/internal/infrastructure/logger"
	"github.com/dormbill/backend/internal/infrastructure/persistence"
)

// Applies the schema to the configured database and exits. The server
// also migrates on startup; this binary exists for deploy pipelines
// that run migrations as a separate step.
func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("schema migrated", zap.String("database", cfg.Database.Name))
}
