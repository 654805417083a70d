// Package sqlite is the repository layer over the two local database files:
// transactions.db (raw payments plus derived sales lines) and sales_data.db
// (CSV-imported sales rows). Connections are scoped to one logical operation:
// open, work, close. There is no pool and no long-lived handle; SQLite's own
// file locking is the only cross-process coordination.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a single SQLite connection.
type DB struct {
	*sql.DB
}

// Open opens the database file at path, creating it and its parent
// directory when absent.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.Open: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: ping: %w", err)
	}
	return &DB{db}, nil
}

// OpenTransactions opens the transactions database and ensures the
// transactions and sales tables exist.
func OpenTransactions(path string) (*DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(transactionsDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.OpenTransactions: creating tables: %w", err)
	}
	return db, nil
}
