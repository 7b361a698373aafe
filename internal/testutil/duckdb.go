package testutil

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// OpenDuckDB opens a DuckDB connection and verifies it responds within a
// short timeout. The connection is closed when the test ends.
func OpenDuckDB(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	ctx := Context(t, 2*time.Second)
	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		t.Fatalf("ping duckdb: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}
