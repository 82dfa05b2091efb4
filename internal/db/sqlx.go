package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Sqlx is the database handle the schema migrator runs on. The rest of the
// code talks to postgres through Storage; goose wants a database/sql handle.
type Sqlx struct {
	DB *sqlx.DB
}

// NewSqlx opens a sqlx connection to the given datasource
func NewSqlx(datasource string) (*Sqlx, error) {
	conn, err := sqlx.Connect("postgres", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return &Sqlx{DB: conn}, nil
}
