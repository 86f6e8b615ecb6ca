// Package testutil provides test utilities for admindash
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // registers the "postgres" database/sql driver

	"github.com/youssefsiam38/admindash/storage"
)

// TestDB wraps a PostgreSQL connection pool for testing
type TestDB struct {
	Pool *pgxpool.Pool
	URL  string
}

// NewTestDB creates a test database connection from DATABASE_URL env var
// and applies the schema. The test is skipped if DATABASE_URL is not set.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	RequireIntegration(t)

	dbURL := os.Getenv("DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("Failed to ping database: %v", err)
	}

	if _, err := pool.Exec(ctx, storage.Schema); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	db := &TestDB{Pool: pool, URL: dbURL}
	t.Cleanup(db.Close)
	return db
}

// OpenSQL opens a database/sql handle on the same database. It is closed
// when the test ends.
func (db *TestDB) OpenSQL(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("postgres", db.URL)
	if err != nil {
		t.Fatalf("Failed to open database/sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

// Close closes the database connection
func (db *TestDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// CleanTables truncates all tables for test isolation
func (db *TestDB) CleanTables(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(storage.Tables, ", ")))
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// RequireIntegration skips the test if not running integration tests
func RequireIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}
}
