package duckdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
)

// schemaDDL holds the delivery store schema.
//
//go:embed schema.sql
var schemaDDL string

// SchemaDDL returns the schema DDL used for initializing DuckDB databases.
func SchemaDDL() string {
	return schemaDDL
}

// EnsureSchema applies the schema DDL to the provided database connection.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("duckdb: db is nil")
	}
	_, err := db.ExecContext(ctx, schemaDDL)
	return err
}
