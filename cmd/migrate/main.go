package main

import (
	"context"
	"os"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"

	"github.com/passprove/verification-node/internal/db/schema"
	"github.com/passprove/verification-node/internal/log"
)

// migrateConfig is read straight from the environment. The migrator runs in
// contexts (CI, init containers) where the full settings file is not mounted.
type migrateConfig struct {
	DatabaseURL string `env:"PASSPROVE_DATABASE_URL,required"`
	LogLevel    int    `env:"PASSPROVE_LOG_LEVEL" envDefault:"0"`
	LogMode     int    `env:"PASSPROVE_LOG_MODE" envDefault:"1"`
}

func main() {
	cfg := migrateConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Error(context.Background(), "cannot load migration config", err)
		os.Exit(1)
	}
	ctx := log.NewContext(context.Background(), cfg.LogLevel, cfg.LogMode, os.Stdout)

	if err := schema.Migrate(cfg.DatabaseURL); err != nil {
		log.Error(ctx, "error migrating database", err)
		os.Exit(1)
	}
	log.Info(ctx, "migration done")
}
