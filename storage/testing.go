package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zenbild/zenbild-web/storage/db"
)

// NewTestDB creates an in-memory SQLite database for testing
func NewTestDB() (*sql.DB, *db.Queries, func(), error) {
	// Create in-memory database
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open test database: %w", err)
	}
	// Every new connection to :memory: is a fresh, empty database
	database.SetMaxOpenConns(1)

	// Run migrations
	if err := migrate(database, embedMigrations); err != nil {
		database.Close()
		return nil, nil, nil, err
	}

	queries := db.New(database)

	// Cleanup function
	cleanup := func() {
		database.Close()
	}

	return database, queries, cleanup, nil
}

// NewTestStorage wraps NewTestDB in a Storage
func NewTestStorage() (*Storage, func(), error) {
	database, queries, cleanup, err := NewTestDB()
	if err != nil {
		return nil, nil, err
	}
	return &Storage{db: database, Queries: queries}, cleanup, nil
}

// WithTransaction executes a function within a transaction and rolls it back
// Useful for tests that need to ensure no side effects
func WithTransaction(database *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback() // Always rollback in tests

	if err := fn(tx); err != nil {
		return err
	}

	return nil
}
