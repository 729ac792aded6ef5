package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// timeFormat is how timestamps are stored; it sorts lexically.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// DB wraps the SQLite database that keeps the local export and upload history
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createExportsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create exports schema: %w", err)
	}

	if _, err := conn.Exec(createImportsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create imports schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
