package schema

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/passprove/verification-node/internal/db"
	"github.com/passprove/verification-node/internal/log"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate runs migrations on the databaseURL
func Migrate(databaseURL string) error {
	conn, err := db.NewSqlx(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.DB.Close(); err != nil {
			log.Error(context.Background(), "closing database", err)
		}
	}()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting dialect: %w", err)
	}

	if err := goose.Up(conn.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("error trying to run migrations: %w", err)
	}

	return nil
}
