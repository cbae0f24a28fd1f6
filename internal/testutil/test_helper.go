// Package testutil prepares a throwaway Postgres schema for store tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

// ProjectRoot resolves the repository root from this file's location.
func ProjectRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "../../")
}

// DBInit connects to TEST_DB_URL and resets the schema with goose. Tests
// calling it are skipped when TEST_DB_URL is not set, so the suite stays
// runnable without a database.
func DBInit(t *testing.T) *pgxpool.Pool {
	t.Helper()

	root := ProjectRoot()
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil {
		t.Logf("failed to load .env file: %+v", err)
	}

	testURL := os.Getenv("TEST_DB_URL")
	if testURL == "" {
		t.Skip("TEST_DB_URL environment variable is not set")
	}

	migDir := filepath.Join(root, "sql", "schema")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, testURL)
	if err != nil {
		t.Fatalf("could not connect to the postgresql database: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose.SetDialect() error = %+v", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := goose.Reset(db, migDir); err != nil {
		t.Fatalf("goose.Reset() error = %+v", err)
	}
	if err := goose.Up(db, migDir); err != nil {
		t.Fatalf("goose.Up() error = %+v", err)
	}

	t.Cleanup(func() {
		if err := goose.Reset(db, migDir); err != nil {
			t.Logf("goose.Reset() error = %+v", err)
		}
		if err := db.Close(); err != nil {
			t.Logf("db.Close() error = %+v", err)
		}
		pool.Close()
	})

	return pool
}
